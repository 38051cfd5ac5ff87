package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

// AdminHandler обслуживает заказы, пользователей и настройки магазина.
type AdminHandler struct {
	orderUsecase    usecase.OrderUC
	userUsecase     usecase.UserUC
	settingsUsecase usecase.SettingsUC
	logger          logger.Logger
}

func NewAdminHandler(orderUsecase usecase.OrderUC, userUsecase usecase.UserUC, settingsUsecase usecase.SettingsUC, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		orderUsecase:    orderUsecase,
		userUsecase:     userUsecase,
		settingsUsecase: settingsUsecase,
		logger:          logger,
	}
}

// getOrders
//
//	@Summary	Список заказов
//	@Tags		orders
//	@Produce	json
//	@Success	200	{object}	SuccessResponse{data=[]OrderDTO}
//	@Failure	401	{object}	ErrorResponse
//	@Router		/orders [get]
func (h *AdminHandler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.List(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Orders fetched successfully", toOrderDTOs(orders))
}

// getAdmins
//
//	@Summary	Администраторы
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	SuccessResponse{data=[]UserDTO}
//	@Router		/users [get]
func (h *AdminHandler) getAdmins(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListAdmins(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Users fetched successfully", toUserDTOs(users))
}

// getClients
//
//	@Summary	Все пользователи магазина
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	SuccessResponse{data=[]UserDTO}
//	@Router		/clients [get]
func (h *AdminHandler) getClients(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListClients(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Clients fetched successfully", toUserDTOs(users))
}

// setRole
//
//	@Summary		Смена роли пользователя
//	@Description	Доступно только роли admin
//	@Tags			users
//	@Produce		json
//	@Param			email	query		string	true	"Email пользователя"
//	@Param			role	query		string	true	"admin, sub-admin или User"
//	@Success		200		{object}	SuccessResponse{data=UserDTO}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/users [put]
func (h *AdminHandler) setRole(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user, err := h.userUsecase.SetRole(r.Context(), &usecase.SetRoleReq{
		Email: q.Get("email"),
		Role:  q.Get("role"),
	})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Infof("role of %s set to %s", user.Email, user.Role)
	WriteSuccess(w, http.StatusOK, "Role updated successfully", toUserDTO(user))
}

// getSettings
//
//	@Summary	Настройки магазина
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	SuccessResponse{data=SettingsDTO}
//	@Router		/settings [get]
func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsUsecase.Get(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Settings fetched successfully", toSettingsDTO(settings))
}

// updateSettings
//
//	@Summary	Изменение настроек магазина
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SettingsReq	true	"Название и иконка"
//	@Success	200		{object}	SuccessResponse{data=SettingsDTO}
//	@Failure	400		{object}	ErrorResponse
//	@Router		/settings [put]
func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var body SettingsReq
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	settings, err := h.settingsUsecase.Update(r.Context(), &usecase.UpdateSettingsReq{Name: body.Name, Icon: body.Icon})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Settings updated successfully", toSettingsDTO(settings))
}
