package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leo-tosi/TDG/internal/generator"
	"github.com/leo-tosi/TDG/internal/models"
	"github.com/leo-tosi/TDG/internal/services"
	"github.com/leo-tosi/TDG/internal/sink"
	"github.com/leo-tosi/TDG/internal/templates"
)

type GenerationHandler struct {
	service *services.DataGenerationService
}

func DSGenerationHandler(service *services.DataGenerationService) *GenerationHandler {
	return &GenerationHandler{
		service: service,
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingFileName),
		errors.Is(err, services.ErrMissingSchema),
		errors.Is(err, sink.ErrInvalidFileName),
		errors.Is(err, templates.ErrInvalidTemplateName):
		return http.StatusBadRequest
	case errors.Is(err, templates.ErrTemplateNotFound),
		errors.Is(err, services.ErrJobNotFound):
		return http.StatusNotFound
	case generator.IsValidation(err),
		errors.Is(err, templates.ErrTemplateParse),
		errors.Is(err, services.ErrTooManyRows):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (handler *GenerationHandler) GetTemplates(ctx *gin.Context) {
	clientIP := ctx.ClientIP()

	list, err := handler.service.ListTemplates()
	if err != nil {
		log.Printf("[TEMPLATES] [ERROR] Failed to list templates - IP: %s, Error: %v", clientIP, err)
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to read templates",
		})
		return
	}

	log.Printf("[TEMPLATES] Listed %d templates - IP: %s", len(list), clientIP)
	ctx.JSON(http.StatusOK, models.TemplateListResponse{Templates: list})
}

func (handler *GenerationHandler) LoadTemplate(ctx *gin.Context) {
	clientIP := ctx.ClientIP()
	file := ctx.Query("file")
	if file == "" {
		log.Printf("[TEMPLATES] [ERROR] Template file not provided - IP: %s", clientIP)
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Template file not provided",
		})
		return
	}

	schema, err := handler.service.LoadTemplate(file)
	if err != nil {
		status := statusFor(err)
		message := "Failed to load template"
		if errors.Is(err, templates.ErrTemplateParse) {
			message = "Template parse error"
		}
		log.Printf("[TEMPLATES] [ERROR] Failed to load template - File: %s, IP: %s, Error: %v", file, clientIP, err)
		ctx.JSON(status, models.ErrorResponse{Error: message})
		return
	}

	log.Printf("[TEMPLATES] Loaded template - File: %s, Columns: %d, IP: %s", file, len(schema.Columns), clientIP)
	ctx.JSON(http.StatusOK, schema)
}

func (handler *GenerationHandler) Generate(ctx *gin.Context) {
	startTime := time.Now()
	clientIP := ctx.ClientIP()

	var req models.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("[GENERATE] [ERROR] Invalid request body from IP: %s, Error: %v", clientIP, err)
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request parameters",
		})
		return
	}

	log.Printf("[GENERATE] Starting generation - File: %s, Template: %q, IP: %s", req.FileName, req.Template, clientIP)

	job, err := handler.service.Generate(ctx.Request.Context(), &req)
	if err != nil {
		log.Printf("[GENERATE] [ERROR] Generation failed - File: %s, IP: %s, Duration: %v, Error: %v",
			req.FileName, clientIP, time.Since(startTime), err)
		status := statusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "Failed to generate data"
			if errors.Is(err, sink.ErrWriteFailed) {
				message = "Failed to save file"
			}
		}
		resp := models.ErrorResponse{Error: message}
		if job != nil {
			resp.ID = job.ID
		}
		ctx.JSON(status, resp)
		return
	}

	log.Printf("[GENERATE] [SUCCESS] File generated - JobID: %s, Path: %s, Rows: %d, Duration: %v, IP: %s",
		job.ID, job.FilePath, job.Rows, time.Since(startTime), clientIP)

	ctx.JSON(http.StatusOK, models.GenerateResponse{
		ID:      job.ID,
		Message: fmt.Sprintf("Data file generated: %s", job.FilePath),
		File:    job.FileName,
		Rows:    job.Rows,
	})
}

func (handler *GenerationHandler) DownloadFile(ctx *gin.Context) {
	clientIP := ctx.ClientIP()
	jobID := ctx.Param("id")

	job := handler.service.GetJob(jobID)
	if job == nil {
		log.Printf("[DOWNLOAD] [ERROR] Job not found - JobID: %s, IP: %s", jobID, clientIP)
		ctx.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Invalid job ID",
		})
		return
	}

	switch job.Status {
	case models.JobStatusInProgress:
		ctx.JSON(http.StatusLocked, models.ErrorResponse{
			Error: "Job is still in progress",
		})

	case models.JobStatusFailed:
		log.Printf("[DOWNLOAD] [ERROR] Job failed - JobID: %s, IP: %s, Reason: %s", jobID, clientIP, job.Error)
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Job failed to generate",
		})

	case models.JobStatusCompleted:
		content, err := handler.service.GetGeneratedFile(jobID)
		if err != nil {
			log.Printf("[DOWNLOAD] [ERROR] Failed to read generated file - JobID: %s, Error: %v", jobID, err)
			ctx.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Generated file not found",
			})
			return
		}

		if ctx.Query("download") == "true" {
			ctx.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": job.FileName}))
			ctx.Data(http.StatusOK, "text/csv; charset=utf-8", content)
			return
		}

		log.Printf("[DOWNLOAD] [SUCCESS] Job completed - JobID: %s, File: %s, IP: %s", jobID, job.FileName, clientIP)
		ctx.JSON(http.StatusOK, gin.H{
			"id":           jobID,
			"status":       string(job.Status),
			"filename":     job.FileName,
			"rows":         job.Rows,
			"file_data":    base64.StdEncoding.EncodeToString(content),
			"content_type": "text/csv",
			"size":         len(content),
			"created_at":   job.CreatedAt,
		})

	default:
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Unknown job status",
		})
	}
}
