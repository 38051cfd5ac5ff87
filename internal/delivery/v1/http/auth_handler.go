package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	cfg         *cfg.AuthCfg
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, cfg *cfg.AuthCfg, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, cfg: cfg, logger: logger}
}

// signIn
//
//	@Summary		Вход в админку
//	@Description	Проверяет ID-токен провайдера и выставляет cookie сессии
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SessionReq	true	"ID-токен"
//	@Success		201		{object}	SuccessResponse{data=SessionDTO}
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/auth/session [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var body SessionReq
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	session, err := h.authUsecase.SignIn(r.Context(), body.IDToken)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Infof("%s signed in as %s", session.Email, session.Role)
	WriteSuccess(w, http.StatusCreated, "Signed in", toSessionDTO(session))
}

// signOut
//
//	@Summary	Выход из админки
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/auth/session [delete]
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.SignOut(r.Context(), sessionIDFromRequest(r, h.cfg.CookieName)); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	WriteSuccess(w, http.StatusOK, "Signed out", nil)
}

// me
//
//	@Summary	Текущая сессия
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse{data=SessionDTO}
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/session [get]
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromCtx(r.Context())
	if !ok {
		respondError(w, h.logger, r, errNoSession)
		return
	}

	WriteSuccess(w, http.StatusOK, "Session is active", toSessionDTO(session))
}
