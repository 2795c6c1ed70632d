package usecase

import (
	"fmt"
	"time"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// parsePeriod convierte los strings de fecha en time.Time; aplica valores por defecto si están vacíos.
func parsePeriod(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidInput)
		}
		end = endOfDay(end)
	}

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidInput)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// toDateRange arma el filtro de listados; a diferencia de parsePeriod, sin fechas no filtra.
func toDateRange(req dto.DateRangeRequest) (repository.DateRange, error) {
	req.DefaultPage()
	out := repository.DateRange{Page: repository.Page{Limit: req.Limit, Offset: req.Offset}}
	if req.StartDate != "" {
		t, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
		if err != nil {
			return out, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidInput)
		}
		out.From = &t
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
		if err != nil {
			return out, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidInput)
		}
		t = endOfDay(t)
		out.To = &t
	}
	if out.From != nil && out.To != nil && out.From.After(*out.To) {
		return out, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}
	return out, nil
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
