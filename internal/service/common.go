package service

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	pkgErrors "logify/pkg/errors"
)

// tenantOf 当前会话的租户ID
func tenantOf(p *auth.Principal) (int64, error) {
	if p == nil {
		return 0, pkgErrors.ErrUnauthorized
	}
	tenantID, ok := p.TenantID()
	if !ok {
		return 0, pkgErrors.ErrTenantUnresolved
	}
	return tenantID, nil
}

// ensureOwner 数据不属于当前租户时返回 Forbidden
func ensureOwner(ownerID, tenantID int64) error {
	if ownerID != tenantID {
		return pkgErrors.ErrForbidden
	}
	return nil
}

// validateMembers 校验成员ID均属于租户，返回去重后的ID
func validateMembers(field string, ids []int64, found []*model.TeamMember) ([]int64, error) {
	uniq := lo.Uniq(ids)
	if len(found) == len(uniq) {
		return uniq, nil
	}
	known := lo.Map(found, func(m *model.TeamMember, _ int) int64 { return m.ID })
	missing, _ := lo.Difference(uniq, known)
	return nil, pkgErrors.Validation("Unknown team member ids", map[string]interface{}{field: missing})
}

func memberRefs(members []*model.TeamMember) []*dto.MemberRef {
	refs := make([]*dto.MemberRef, 0, len(members))
	for _, m := range members {
		refs = append(refs, &dto.MemberRef{ID: m.ID, Name: m.Name, Email: m.Email, Avatar: m.Avatar})
	}
	return refs
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// round2 保留两位小数
func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return math.Round(f*100) / 100
}

// ratio 除数为0时返回0
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
