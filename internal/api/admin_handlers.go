package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/mine-game/internal/auth"
)

const maxEvents = 200

// TokenRequest - запрос токена администратора
type TokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse - выданный токен
type TokenResponse struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"is_admin"`
}

// handleToken обменивает пароль администратора на JWT
func (rs *RestServer) handleToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	token, err := rs.issuer.LoginAdmin(req.Password)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		respondError(c, http.StatusForbidden, "Вход администратора отключён")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		rs.logger.Warn("неудачный вход администратора с %s", c.ClientIP())
		respondError(c, http.StatusUnauthorized, "Неверный пароль")
		return
	case err != nil:
		rs.logger.Error("выдача токена: %v", err)
		respondError(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	respondOK(c, "Успешный вход", TokenResponse{Token: token, IsAdmin: true})
}

// handleRegenerate немедленно перегенерирует пещеру шахты
func (rs *RestServer) handleRegenerate(c *gin.Context) {
	view, err := rs.service.Regenerate(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.gameError(c, err)
		return
	}

	if claims, ok := claimsFrom(c); ok {
		rs.logger.Info("шахта %s перегенерирована по запросу %s", view.Location, claims.Player)
	}
	respondOK(c, "Пещера перегенерирована", view)
}

// handleEvents отдаёт последние записи журнала: ?type=rock_mined&limit=50
func (rs *RestServer) handleEvents(c *gin.Context) {
	if rs.journal == nil {
		respondError(c, http.StatusServiceUnavailable, "Журнал событий отключён")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "Неверный limit")
			return
		}
		limit = min(n, maxEvents)
	}

	entries, err := rs.journal.Recent(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		rs.logger.Error("чтение журнала: %v", err)
		respondError(c, http.StatusInternalServerError, "Не удалось прочитать журнал")
		return
	}
	respondOK(c, "События", entries)
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
