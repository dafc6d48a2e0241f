package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseDate reads a calendar date with no time zone shift: "2026-08-29" is
// the same date wherever the server runs.
func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", field, s)
	}
	return d, nil
}

// parseAmount reads a decimal money field from its request string.
func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: expected a decimal amount", field, s)
	}
	return d, nil
}

// parseOptionalAmount is parseAmount for nullable request fields.
func parseOptionalAmount(field string, s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseAmount(field, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// writeAudit records one audit row through the given repository, normally
// inside the caller's transaction context.
func writeAudit(ctx context.Context, repo repository.AuditRepository, tenantID, userID uuid.UUID, action, entityID, entityName string, payload map[string]interface{}) error {
	details := ""
	if payload != nil {
		raw, _ := json.Marshal(payload)
		details = string(raw)
	}
	uid := userID
	entry := &model.AuditLog{
		TenantID:   tenantID,
		UserID:     &uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
