package controller

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/paths"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
)

// Localize renders messages for the request locale.
func Localize(ctx *gin.Context, msgs []i18n.Message) []dto.MessageDTO {
	if len(msgs) == 0 {
		return nil
	}
	locale := middleware.CurrentLocale(ctx)
	out := make([]dto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.MessageDTO{Level: string(m.Level), Text: m.Text(locale)})
	}
	return out
}

// Redirect answers 303 See Other with the target mirrored in the body.
func Redirect(ctx *gin.Context, to string, msgs ...i18n.Message) {
	ctx.Header("Location", to)
	ctx.JSON(http.StatusSeeOther, dto.RedirectResponse{RedirectTo: to, Messages: Localize(ctx, msgs)})
}

func Data(ctx *gin.Context, status int, data any, msgs ...i18n.Message) {
	ctx.JSON(status, dto.DataResponse{Data: data, Messages: Localize(ctx, msgs)})
}

// LoginURL points at the login page with next set to the current request.
func LoginURL(ctx *gin.Context) string {
	return paths.Login + "?" + url.Values{"next": {ctx.Request.URL.RequestURI()}}.Encode()
}

// Error maps a service error to its status. data, if any, is sent along so the
// client can re-render the rejected form.
func Error(ctx *gin.Context, err error, data any) {
	locale := middleware.CurrentLocale(ctx)
	if v := reflect.ValueOf(data); data != nil && v.Kind() == reflect.Ptr && v.IsNil() {
		data = nil
	}

	var verr *service.ValidationError
	var perr *service.PersistenceError
	switch {
	case errors.As(err, &verr):
		resp := dto.ErrorResponse{
			Message:  i18n.T(locale, i18n.KeyBadRequest),
			Messages: Localize(ctx, append(append([]i18n.Message{}, verr.Form...), verr.Notices...)),
			Data:     data,
		}
		for _, m := range verr.Form {
			resp.Details = append(resp.Details, m.Text(locale))
		}
		if len(verr.Fields) > 0 {
			resp.Fields = make(map[string][]string, len(verr.Fields))
			for field, msgs := range verr.Fields {
				for _, m := range msgs {
					resp.Fields[field] = append(resp.Fields[field], m.Text(locale))
				}
			}
		}
		ctx.JSON(http.StatusUnprocessableEntity, resp)
	case errors.As(err, &perr):
		msg := perr.Message()
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message:  msg.Text(locale),
			Messages: Localize(ctx, []i18n.Message{msg}),
			Data:     data,
		})
	case errors.Is(err, service.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Message:  i18n.T(locale, i18n.KeyAuthLoginRequired),
			LoginURL: LoginURL(ctx),
		})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: i18n.T(locale, i18n.KeyAuthForbidden)})
	case errors.Is(err, service.ErrInvalidReference):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: i18n.T(locale, i18n.KeyInvalidReference)})
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: i18n.T(locale, i18n.KeyNotFound)})
	default:
		log.Error().Err(err).Str("method", ctx.Request.Method).Str("path", ctx.Request.URL.Path).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: i18n.T(locale, i18n.KeyInternal)})
	}
}

// BindError answers 400 for a request body that could not be decoded.
func BindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Message: i18n.T(middleware.CurrentLocale(ctx), i18n.KeyBadRequest),
		Details: []string{err.Error()},
	})
}

// ParseID reads a numeric path parameter. Malformed ids answer 404 and return false.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: i18n.T(middleware.CurrentLocale(ctx), i18n.KeyNotFound)})
		return 0, false
	}
	return uint(id), true
}
