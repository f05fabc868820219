package products

import (
	"strconv"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/constants"
)

// CanView decides single-product visibility for a principal. Administrators
// and compilers see everything; viewers see only products whose group id is
// in their allowed list (ungrouped products are never shown to viewers);
// guests see nothing.
func CanView(role string, allowedGroups []string, p *domain.Product) bool {
	switch role {
	case constants.Administrator, constants.Compiler:
		return true
	case constants.Viewer:
		if p.GroupID == nil {
			return false
		}
		gid := strconv.FormatUint(uint64(*p.GroupID), 10)
		for _, g := range allowedGroups {
			if g == gid {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FilterVisible restricts a result set to what the principal may see. A
// viewer with no allowed groups gets an empty slice, not an error.
func FilterVisible(role string, allowedGroups []string, ps []domain.Product) []domain.Product {
	if role == constants.Administrator || role == constants.Compiler {
		return ps
	}
	out := make([]domain.Product, 0)
	for i := range ps {
		if CanView(role, allowedGroups, &ps[i]) {
			out = append(out, ps[i])
		}
	}
	return out
}
