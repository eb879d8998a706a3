package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leo-tosi/TDG/internal/encoder"
	"github.com/leo-tosi/TDG/internal/generator"
	"github.com/leo-tosi/TDG/internal/models"
	"github.com/leo-tosi/TDG/internal/sink"
	"github.com/leo-tosi/TDG/internal/templates"
)

const DefaultRowsCount = 10

var (
	ErrMissingFileName = errors.New("file_name is required")
	ErrMissingSchema   = errors.New("either template or total_columns and columns are required")
	ErrTooManyRows     = errors.New("rows_count exceeds limit")
	ErrJobNotFound     = errors.New("job not found")
)

type Options struct {
	DefaultRows   int
	MaxRows       int
	MaxColumns    int
	MaxTextLength int
	Strict        bool
	Encoding      encoder.Encoding
}

type DataGenerationService struct {
	store    *templates.Store
	sink     sink.Sink
	opts     Options
	jobs     map[string]*models.GenerationJob
	jobsLock sync.RWMutex
}

func DSDataGenerationService(store *templates.Store, out sink.Sink, opts Options) *DataGenerationService {
	if opts.DefaultRows == 0 {
		opts.DefaultRows = DefaultRowsCount
	}
	if opts.Encoding == "" {
		opts.Encoding = encoder.Verbatim
	}
	return &DataGenerationService{
		store: store,
		sink:  out,
		opts:  opts,
		jobs:  make(map[string]*models.GenerationJob),
	}
}

func (svc *DataGenerationService) ListTemplates() ([]models.TemplateInfo, error) {
	return svc.store.List()
}

func (svc *DataGenerationService) LoadTemplate(file string) (*models.Schema, error) {
	return svc.store.Load(file)
}

// resolveSchema prefers a named template; inline columns are used otherwise.
func (svc *DataGenerationService) resolveSchema(req *models.GenerateRequest) (*models.Schema, error) {
	if req.Template != "" {
		return svc.store.Resolve(req.Template)
	}
	if req.TotalColumns == 0 || req.Columns == nil {
		return nil, ErrMissingSchema
	}
	return &models.Schema{TotalColumns: req.TotalColumns, Columns: req.Columns}, nil
}

func (svc *DataGenerationService) rowsCount(req *models.GenerateRequest) (int, error) {
	rows := svc.opts.DefaultRows
	if req.RowsCount != nil {
		rows = *req.RowsCount
	}
	if svc.opts.MaxRows > 0 && rows > svc.opts.MaxRows {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyRows, rows, svc.opts.MaxRows)
	}
	return rows, nil
}

// Generate synthesizes the requested dataset and writes it as <file_name>.csv.
// A job is recorded for every request that names a file, including failed ones.
func (svc *DataGenerationService) Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerationJob, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, ErrMissingFileName
	}
	fileName += ".csv"
	if _, err := sink.CleanName(fileName); err != nil {
		return nil, err
	}

	job := models.DSGenerationJob(uuid.New().String(), fileName)
	svc.jobsLock.Lock()
	svc.jobs[job.ID] = job
	svc.jobsLock.Unlock()

	path, rows, err := svc.generate(ctx, req, fileName)

	svc.jobsLock.Lock()
	defer svc.jobsLock.Unlock()
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		snapshot := *job
		return &snapshot, err
	}
	job.Status = models.JobStatusCompleted
	job.FilePath = path
	job.Rows = rows
	snapshot := *job
	return &snapshot, nil
}

func (svc *DataGenerationService) generate(ctx context.Context, req *models.GenerateRequest, fileName string) (string, int, error) {
	schema, err := svc.resolveSchema(req)
	if err != nil {
		return "", 0, err
	}
	rows, err := svc.rowsCount(req)
	if err != nil {
		return "", 0, err
	}

	synth := generator.NewSynthesizer(generator.Options{
		Strict: svc.opts.Strict,
		Limits: generator.Limits{
			MaxColumns:    svc.opts.MaxColumns,
			MaxTextLength: svc.opts.MaxTextLength,
		},
	})
	data, err := synth.SynthesizeSchema(schema, rows)
	if err != nil {
		return "", 0, err
	}

	encoded, err := encoder.EncodeWith(svc.opts.Encoding, data, schema.Columns)
	if err != nil {
		return "", 0, err
	}

	path, err := svc.sink.Write(ctx, fileName, encoded)
	if err != nil {
		return "", 0, err
	}
	return path, len(data), nil
}

func (svc *DataGenerationService) GetJob(jobID string) *models.GenerationJob {
	svc.jobsLock.RLock()
	defer svc.jobsLock.RUnlock()
	job := svc.jobs[jobID]
	if job == nil {
		return nil
	}
	snapshot := *job
	return &snapshot
}

func (svc *DataGenerationService) GetGeneratedFile(jobID string) ([]byte, error) {
	svc.jobsLock.RLock()
	job := svc.jobs[jobID]
	svc.jobsLock.RUnlock()

	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.Status != models.JobStatusCompleted {
		return nil, errors.New("generated file not found")
	}
	return svc.sink.Read(job.FileName)
}

// CleanupOldJobs forgets jobs older than maxAge. Generated files stay on disk
// since they are served from the public directory.
func (svc *DataGenerationService) CleanupOldJobs(maxAge time.Duration) int {
	svc.jobsLock.Lock()
	defer svc.jobsLock.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for jobID, job := range svc.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(svc.jobs, jobID)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanupOldJobs every interval until ctx is done.
func (svc *DataGenerationService) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.CleanupOldJobs(maxAge)
		}
	}
}
