package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

type ColumnType string

const (
	ColumnFixed           ColumnType = "fixed"
	ColumnRandomNumber    ColumnType = "random_number"
	ColumnPatternedNumber ColumnType = "patterned_number"
	ColumnText            ColumnType = "text"
	ColumnDate            ColumnType = "date"
)

// Known reports whether the generator has a strategy for the type.
func (t ColumnType) Known() bool {
	switch t {
	case ColumnFixed, ColumnRandomNumber, ColumnPatternedNumber, ColumnText, ColumnDate:
		return true
	}
	return false
}

const (
	TextHiragana = "hiragana"
	TextKatakana = "katakana"

	DateCurrent = "current"
	DateRandom  = "random"
)

// LooseString decodes a JSON string, number or bool into its literal text.
// Hand-written templates mix `"value": "100"` and `"value": 100`.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*s = LooseString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*s = LooseString(strconv.FormatBool(val))
	default:
		*s = LooseString(string(data))
	}
	return nil
}

type ColumnDescriptor struct {
	Position int        `json:"position"`
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`

	// fixed
	Value *LooseString `json:"value,omitempty"`

	// random_number, patterned_number
	Start  int64        `json:"start,omitempty"`
	End    int64        `json:"end,omitempty"`
	Step   int64        `json:"step,omitempty"`
	Prefix *LooseString `json:"prefix,omitempty"`
	Suffix *LooseString `json:"suffix,omitempty"`

	// text
	TextType string `json:"textType,omitempty"`
	Length   *int   `json:"length,omitempty"`

	// date
	GenerationMethod string       `json:"generationMethod,omitempty"`
	SpecificDate     *LooseString `json:"specificDate,omitempty"`
}

// Schema is a parsed template: the row width and its column descriptors.
type Schema struct {
	TotalColumns int                `json:"total_columns"`
	Columns      []ColumnDescriptor `json:"columns"`
}

type Row []string

type Dataset []Row

type GenerateRequest struct {
	FileName     string             `json:"file_name"`
	Template     string             `json:"template,omitempty"`
	TotalColumns int                `json:"total_columns,omitempty"`
	Columns      []ColumnDescriptor `json:"columns,omitempty"`
	RowsCount    *int               `json:"rows_count,omitempty"`
}

type TemplateInfo struct {
	File string `json:"file"`
	Name string `json:"name"`
}

type TemplateListResponse struct {
	Templates []TemplateInfo `json:"templates"`
}

type ErrorResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

type GenerateResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	File    string `json:"file"`
	Rows    int    `json:"rows"`
}

type JobStatus string

const (
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

type GenerationJob struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	FileName  string    `json:"fileName"`
	FilePath  string    `json:"filePath"`
	Rows      int       `json:"rows"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func DSGenerationJob(id, fileName string) *GenerationJob {
	return &GenerationJob{
		ID:        id,
		FileName:  fileName,
		Status:    JobStatusInProgress,
		CreatedAt: time.Now(),
	}
}
