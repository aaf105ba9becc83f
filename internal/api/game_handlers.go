package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/mine-game/internal/app"
	"github.com/annel0/mine-game/internal/world/grid"
)

// StepRequest - шаг игрока, каждая компонента в [-1, 1]
type StepRequest struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (rs *RestServer) handleMines(c *gin.Context) {
	respondOK(c, "Шахты", rs.service.Mines())
}

func (rs *RestServer) handleMine(c *gin.Context) {
	view, err := rs.service.Mine(c.Param("id"))
	if err != nil {
		rs.gameError(c, err)
		return
	}
	respondOK(c, "Шахта", view)
}

func (rs *RestServer) handleMove(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	res, err := rs.service.Move(c.Param("id"), req.DX, req.DY)
	if err != nil {
		rs.gameError(c, err)
		return
	}
	respondOK(c, res.Outcome, res)
}

func (rs *RestServer) handleMineRock(c *gin.Context) {
	res, ok, err := rs.service.MineRock(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.gameError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, GenericResponse{Success: false, Message: "Рядом нет пород"})
		return
	}
	if !res.Broken {
		respondOK(c, "Удар по породе", res)
		return
	}
	respondOK(c, "Порода добыта", res)
}

func (rs *RestServer) handleInventory(c *gin.Context) {
	respondOK(c, "Инвентарь", rs.service.Inventory())
}

func (rs *RestServer) handleDungeon(c *gin.Context) {
	respondOK(c, "Подземелье", rs.service.Dungeon())
}

func (rs *RestServer) handleDungeonMove(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	res := rs.service.MoveInDungeon(req.DX, req.DY)
	respondOK(c, res.Outcome, res)
}

func (rs *RestServer) handleAttack(c *gin.Context) {
	h, err := strconv.ParseUint(c.Param("handle"), 10, 64)
	if err != nil || h == 0 {
		respondError(c, http.StatusBadRequest, "Неверный дескриптор моба")
		return
	}

	res, err := rs.service.Attack(c.Request.Context(), grid.Handle(h))
	if err != nil {
		rs.gameError(c, err)
		return
	}
	respondOK(c, "Удар нанесён", res)
}

// gameError переводит ошибки сервиса в HTTP статусы
func (rs *RestServer) gameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownLocation), errors.Is(err, app.ErrNoMob):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		rs.logger.Warn("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
