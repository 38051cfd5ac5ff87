package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/shop-admin/internal/infrastructure"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	maxImageCount = 10
	maxFileSize   = 15 << 20
	maxJSONBody   = 1 << 20
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func NewErrorResponse(code int, kind, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Error:   kind,
		Message: message,
	}
}

// ToHTTPResponse переводит ошибку в HTTP-код, категорию и сообщение для клиента.
func ToHTTPResponse(err error) (int, string, string) {
	switch e.Kind(err) {
	case e.ErrValidation:
		return http.StatusBadRequest, e.ErrValidation.Error(), e.Message(err)
	case e.ErrConflict:
		return http.StatusConflict, e.ErrConflict.Error(), e.Message(err)
	case e.ErrNotFound:
		return http.StatusNotFound, e.ErrNotFound.Error(), e.Message(err)
	case e.ErrInUse:
		return http.StatusBadRequest, e.ErrInUse.Error(), e.Message(err)
	case e.ErrUnauthorized:
		return http.StatusUnauthorized, e.ErrUnauthorized.Error(), e.Message(err)
	case e.ErrForbidden:
		return http.StatusForbidden, e.ErrForbidden.Error(), e.Message(err)
	default:
		return http.StatusInternalServerError, "internal", e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, kind, msg := ToHTTPResponse(err)
	writeJSON(w, code, NewErrorResponse(code, kind, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, SuccessResponse{Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError пишет ответ с ошибкой. Неклассифицированные ошибки логируются как внутренние.
func respondError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	if e.Kind(err) == nil {
		log.Errorf(err, "%s %s", r.Method, r.URL.Path)
	} else {
		log.Warnf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	WriteError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidBody)
	}

	return nil
}

// parseID читает обязательный параметр ?id= как положительное целое.
func parseID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(raw, e.ErrInvalidID)
	}

	return id, nil
}

// priceToCents переводит цену вида 599.99 в копейки.
// Отклоняет отрицательные значения, больше двух знаков после запятой и суммы больше 1 млрд.
func priceToCents(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	return d.Shift(2).IntPart(), nil
}

func centsToPrice(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrInvalidBody)
	}

	return nil
}

func parseImages(files []*multipart.FileHeader) ([]usecase.ProductImage, error) {
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader) (*usecase.ProductImage, error) {
	if fh.Size > maxFileSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxFileSize+1))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxFileSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !infrastructure.IsSupportedImage(mimeType) {
		return nil, e.Wrap(fh.Filename+": "+mimeType, e.ErrUnsupportedMediaType)
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}
