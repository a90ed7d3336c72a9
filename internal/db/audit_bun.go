// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"os/user"
	"strings"

	"github.com/toeirei/pybookmarks/internal/model"
)

// currentUsername returns the OS user name without a Windows domain prefix.
func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if parts := strings.Split(u.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return u.Username
}

// AllAuditLogEntries returns the audit log, newest first.
func (s *bunStore) AllAuditLogEntries(ctx context.Context) ([]model.AuditLogEntry, error) {
	var am []AuditLogModel
	if err := s.bun.NewSelect().Model(&am).OrderExpr("al.timestamp DESC, al.id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}

// LogAction records an action performed by the current OS user.
func (s *bunStore) LogAction(ctx context.Context, action string, details string) error {
	entry := &AuditLogModel{
		Timestamp: s.now(),
		Username:  currentUsername(),
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(entry).Exec(ctx)
	return MapDBError(err)
}
