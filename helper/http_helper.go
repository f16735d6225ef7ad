package helper

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"roadmap-review/logger"
	"roadmap-review/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	codeBadRequest   = "bad_request"
	codeValidation   = "validation_error"
	codeInvalidState = "invalid_state"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeInternal     = "internal_error"
)

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Log        *logger.Logger
}

// NewHTTPHelper builds a helper whose validation messages are English and
// name fields by their JSON keys.
func NewHTTPHelper(log *logger.Logger) (*HTTPHelper, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &HTTPHelper{Validate: validate, Translator: trans, Log: log}, nil
}

// BindJSON decodes the request body into dst and validates it.
func (u *HTTPHelper) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.ErrorValidation{Message: "Invalid request body: " + err.Error()}
	}
	return u.Validate.Struct(dst)
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	status, _ := classify(err)
	return status
}

func classify(err error) (int, string) {
	var (
		validation   models.ErrorValidation
		invalidState models.ErrorInvalidState
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
		notFound     models.ErrorNotFound
		conflict     models.ErrorConflict
	)
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &validation):
		return http.StatusBadRequest, codeValidation
	case errors.As(err, &invalidState):
		return http.StatusBadRequest, codeInvalidState
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden, codeForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound, codeNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict, codeConflict
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// SendError ...
// Send an error response whose status follows the error's type. Internal
// errors are logged and reported without detail.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		u.SendValidationError(c, validationErrors)
		return
	}

	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if u.Log != nil {
			u.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		}
		message = "Internal server error."
	}
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

// SendBadRequest ...
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   codeBadRequest,
		"message": message,
	})
}

// SendValidationError ...
// Send translated validation messages keyed by JSON field name.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	fields := map[string][]string{}
	messages := make([]string, 0, len(validationErrors))
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		msg := errorTranslation[err.Namespace()]
		fields[err.Field()] = append(fields[err.Field()], msg)
		messages = append(messages, msg)
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":   codeValidation,
		"message": strings.Join(messages, "; "),
		"fields":  fields,
	})
}

// SendUnauthorizedError ...
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   codeUnauthorized,
		"message": message,
	})
}

// SendSuccess ...
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.send(c, http.StatusOK, message, data)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	u.send(c, http.StatusCreated, message, data)
}

// SendActionResult reports a lifecycle action; version is omitted when the
// action does not produce one.
func (u *HTTPHelper) SendActionResult(c *gin.Context, res *models.UpdateRoadmapResult) {
	body := gin.H{
		"success": true,
		"message": res.Message,
	}
	if res.Version != nil {
		body["version"] = *res.Version
	}
	c.JSON(http.StatusOK, body)
}

// SendPaginated ...
func (u *HTTPHelper) SendPaginated(c *gin.Context, message string, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": u.GeneratePaging(c, 0, 0, limit, page, int(total)),
	})
}

func (u *HTTPHelper) send(c *gin.Context, status int, message string, data interface{}) {
	if len(message) == 0 {
		message = `success`
	}
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, prev, next, limit, page, totalRecord int) map[string]interface{} {
	if limit < 1 {
		limit = 1
	}

	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	if page > 1 {
		prev = page - 1
	}
	if page < totalPages {
		next = page + 1
	} else {
		next = totalPages
	}

	if totalPages >= page && page > 1 {
		prevURL = u.GetPagingUrl(c, prev, limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, next, limit)
	}

	if totalPages >= page && page > 1 {
		firstURL = u.GetPagingUrl(c, 1, limit)
	}

	if totalPages >= page && totalPages != page {
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	pagination := map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links":         links,
	}

	return pagination
}
