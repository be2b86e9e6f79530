package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/reconcile"
)

type movementRequest struct {
	ID              string              `json:"id" binding:"required"`
	Plate           string              `json:"placa" binding:"required"`
	VehicleCategory string              `json:"tipo_vehiculo"`
	EntryAt         *time.Time          `json:"entrada"`
	ExitAt          *time.Time          `json:"salida"`
	AmountPaid      decimal.NullDecimal `json:"total_pagado"`
	PaymentMethod   *string             `json:"metodo_pago"`
	EmployeeName    string              `json:"usuario_nombre"`
	DurationMinutes *int                `json:"duracion_minutos"`
	TerminalID      string              `json:"porteria_id"`
}

// SubmitMovement handles POST /sync/movement. Validation failures are
// rejected before anything touches storage.
func (h *Handler) SubmitMovement(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := reconcile.MovementEvent{
		ID:              req.ID,
		Plate:           req.Plate,
		VehicleCategory: req.VehicleCategory,
		ExitAt:          req.ExitAt,
		AmountPaid:      req.AmountPaid,
		PaymentMethod:   req.PaymentMethod,
		EmployeeName:    req.EmployeeName,
		DurationMinutes: req.DurationMinutes,
		TerminalID:      req.TerminalID,
	}
	if req.EntryAt != nil {
		ev.EntryAt = *req.EntryAt
	} else {
		// Terminals normally stamp the entry; fall back to receipt time.
		ev.EntryAt = time.Now().UTC()
	}

	outcome, err := h.reconciler.Apply(c.Request.Context(), ev)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mensaje := "Entrada registrada"
	if outcome == reconcile.OutcomeExitRecorded {
		mensaje = "Salida registrada"
	}
	c.JSON(http.StatusOK, gin.H{"status": string(outcome), "mensaje": mensaje})
}

type liveStateRequest struct {
	TodayRevenue   decimal.Decimal                    `json:"ingresos_hoy"`
	TotalOccupancy int                                `json:"ocupacion_total"`
	Detail         map[string]model.CategoryOccupancy `json:"detalle_ocupacion"`
}

// PushLiveState handles POST /sync/live-state. The snapshot replaces the
// singleton wholesale; the occupancy detail is decoded into its typed shape
// at this boundary.
func (h *Handler) PushLiveState(c *gin.Context) {
	var req liveStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := reconcile.Snapshot{
		TodayRevenue:   req.TodayRevenue,
		TotalOccupancy: req.TotalOccupancy,
		Detail:         model.OccupancyDetail(req.Detail),
	}
	if err := h.aggregator.Push(c.Request.Context(), snap); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// SubmitCashout handles POST /sync/cashout, appending one shift-closure
// report to the audit trail.
func (h *Handler) SubmitCashout(c *gin.Context) {
	var report model.CashoutReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report.ID = 0

	if err := h.store.AppendCashout(c.Request.Context(), &report); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "mensaje": "Arqueo de caja recibido en central"})
}

type alertRequest struct {
	ID          string     `json:"id" binding:"required"`
	CameraID    string     `json:"camara_id"`
	Kind        string     `json:"tipo"`
	Description string     `json:"descripcion"`
	FileURL     string     `json:"archivo_url"`
	OccurredAt  *time.Time `json:"fecha"`
}

// SubmitAlert handles POST /sync/alert. Redelivery replaces the stored row;
// subscribed dashboards get a push notification.
func (h *Handler) SubmitAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := model.Alert{
		ID:          req.ID,
		CameraID:    req.CameraID,
		Kind:        req.Kind,
		Description: req.Description,
		FileURL:     req.FileURL,
	}
	if req.OccurredAt != nil {
		alert.OccurredAt = *req.OccurredAt
	} else {
		alert.OccurredAt = time.Now().UTC()
	}

	if err := h.store.InsertAlert(c.Request.Context(), &alert); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(alert.ID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "mensaje": "Alerta sincronizada en central"})
}
