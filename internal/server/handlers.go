package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/CardioRisk/internal/charts"
	"github.com/Skufu/CardioRisk/internal/dataset"
	"github.com/Skufu/CardioRisk/internal/risk"
)

const noDatasetMessage = "Primero sube un archivo Excel en la pestaña Cargar Excel."

var fieldLabels = map[string]string{
	"Age":                  "age",
	"Sex":                  "sex",
	"RestingBloodPressure": "resting blood pressure",
	"Cholesterol":          "cholesterol",
	"FastingSugarHigh":     "fasting blood sugar",
	"ExerciseAngina":       "exercise angina",
	"RestingECG":           "resting ECG",
	"MaxHeartRate":         "max heart rate",
	"Oldpeak":              "oldpeak",
	"Slope":                "slope",
	"BMI":                  "BMI",
	"StressLevel":          "stress level",
	"SleepHours":           "sleep hours",
}

func (h *Handler) readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"session": fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session": "ok"})
}

func (h *Handler) scoreRecord(c *gin.Context) {
	var payload risk.PatientRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation_failed",
				"details": validationDetails(verrs),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	c.JSON(http.StatusOK, risk.Assess(payload.Vitals()))
}

func validationDetails(verrs validator.ValidationErrors) []string {
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", label))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s", label, fe.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s", label, fe.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", label))
		}
	}
	return details
}

func (h *Handler) uploadDataset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx files are accepted"})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.log.WithError(err).Error("open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()

	table, err := dataset.ReadXLSX(f)
	if err != nil {
		h.log.WithFields(logrus.Fields{"file": file.Filename, "session": sessionID(c)}).WithError(err).Warn("rejected dataset")
		if isDataError(err) || errors.Is(err, dataset.ErrEmptySheet) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_dataset", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read workbook"})
		return
	}

	if err := h.store.Put(c.Request.Context(), sessionID(c), table); err != nil {
		h.log.WithError(err).Error("store dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store dataset"})
		return
	}

	h.log.WithFields(logrus.Fields{"file": file.Filename, "rows": table.Len(), "session": sessionID(c)}).Info("dataset loaded")
	c.JSON(http.StatusOK, gin.H{
		"message": "Archivo cargado correctamente",
		"preview": table.Preview(),
	})
}

func (h *Handler) getDataset(c *gin.Context) {
	table, ok := h.loadTable(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": table.Preview()})
}

func (h *Handler) deleteDataset(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), sessionID(c)); err != nil {
		h.log.WithError(err).Error("delete dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete dataset"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getRow(c *gin.Context) {
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	table, ok := h.loadTable(c)
	if !ok {
		return
	}

	row, err := table.Row(idx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"index":   idx,
		"columns": table.Columns,
		"values":  row,
	})
}

func (h *Handler) scoreRow(c *gin.Context) {
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	table, ok := h.loadTable(c)
	if !ok {
		return
	}

	vitals, err := table.Vitals(idx)
	switch {
	case errors.Is(err, dataset.ErrRowOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_row", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, risk.Assess(vitals))
}

func (h *Handler) getCharts(c *gin.Context) {
	table, ok := h.loadTable(c)
	if !ok {
		return
	}

	gallery := charts.Build(table)
	for _, v := range gallery.Failed() {
		h.log.WithFields(logrus.Fields{"view": v.ID, "session": sessionID(c)}).Warn(v.Error)
	}
	c.JSON(http.StatusOK, gallery)
}

// loadTable fetches the session's table, writing the response itself when
// there is none.
func (h *Handler) loadTable(c *gin.Context) (*dataset.Table, bool) {
	table, ok, err := h.store.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.log.WithError(err).Error("load dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dataset"})
		return nil, false
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no_dataset", "message": noDatasetMessage})
		return nil, false
	}
	return table, true
}

func rowIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row index must be an integer"})
		return 0, false
	}
	return idx, true
}

func isDataError(err error) bool {
	var dfe *dataset.DataFormatError
	var mce *dataset.MissingColumnError
	return errors.As(err, &dfe) || errors.As(err, &mce)
}
