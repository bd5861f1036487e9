package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/ledger-engine/internal/app"
	"github.com/ignatzorin/ledger-engine/internal/http/handlers/common"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	"github.com/ignatzorin/ledger-engine/internal/report"
)

// sniffLen: сколько байт filetype нужно для распознавания сигнатуры.
const sniffLen = 261

type BatchOptions struct {
	Workers        int
	Precision      int32
	MaxUploadBytes int64
	MaxErrors      int
}

// BatchHandler прогоняет присланный CSV через новый журнал в памяти.
type BatchHandler struct {
	opts BatchOptions
}

func NewBatchHandler(opts BatchOptions) *BatchHandler {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 100
	}
	return &BatchHandler{opts: opts}
}

// BatchResponse содержит итог прогона и снимок счетов.
type BatchResponse struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Errors    []app.Failure `json:"errors"`
	Clients   []report.Row  `json:"clients"`
}

// Process обрабатывает POST /api/batches. Тело содержит CSV целиком либо
// multipart-поле file. С ?format=csv ответом будет CSV снимок.
func (h *BatchHandler) Process(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		common.RespondError(c, http.StatusBadRequest, string(apperror.ErrCodeBadRequest), "format должен быть json или csv")
		return
	}

	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	src, closeFn, err := h.openInput(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer closeFn()

	input := bufio.NewReaderSize(src, 64*1024)
	if err := rejectBinary(input); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := app.Run(c.Request.Context(), input, app.NewMemoryStorage(), app.Options{
		Workers:     h.opts.Workers,
		Precision:   h.opts.Precision,
		MaxFailures: h.opts.MaxErrors,
	})
	if err != nil {
		_ = c.Error(classifyReadError(err))
		return
	}

	if format == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.WriteCSV(c.Writer, res.Clients, h.opts.Precision); err != nil {
			_ = c.Error(err)
		}
		return
	}

	errs := res.Failures
	if errs == nil {
		errs = []app.Failure{}
	}
	common.RespondJSON(c, http.StatusOK, BatchResponse{
		RunID:     res.RunID,
		Processed: res.Summary.Processed,
		Failed:    res.Summary.Failed,
		Skipped:   res.Skipped,
		Errors:    errs,
		Clients:   report.Rows(res.Clients, h.opts.Precision),
	})
}

func (h *BatchHandler) openInput(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, func() {}, nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, nil, classifyReadError(apperror.Wrap(err, apperror.ErrCodeBadRequest, "файл не найден в поле file"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось открыть файл")
	}
	return file, func() { file.Close() }, nil
}

// rejectBinary отклоняет вход с сигнатурой известного бинарного формата.
func rejectBinary(r *bufio.Reader) error {
	head, err := r.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return classifyReadError(err)
	}
	if len(head) == 0 {
		return apperror.New(apperror.ErrCodeValidation, "пустой файл")
	}

	kind, _ := filetype.Match(head)
	if kind != filetype.Unknown {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("ожидался CSV, получен %s", kind.MIME.Value))
	}
	return nil
}

func classifyReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &apperror.AppError{
			Code:       apperror.ErrCodeValidation,
			Message:    fmt.Sprintf("файл больше %d байт", maxErr.Limit),
			HTTPStatus: http.StatusRequestEntityTooLarge,
			Cause:      err,
		}
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса")
}
