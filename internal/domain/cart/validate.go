// internal/domain/cart/validate.go
package cart

import (
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

// ResolveSelections checks a set of selected option IDs against a menu
// item's customization groups and resolves them to option records carrying
// their price snapshots. It rejects, before anything is written:
//   - option IDs that belong to none of the item's groups
//   - unavailable options
//   - per-group selection counts outside [MinSelectable, MaxSelectable]
func ResolveSelections(groups []menu.CustomizationGroup, selected []uint) ([]CartItemOption, error) {
	type resolved struct {
		groupID uint
		option  menu.CustomizationOption
	}
	byID := make(map[uint]resolved)
	for _, g := range groups {
		for _, opt := range g.Options {
			byID[opt.ID] = resolved{groupID: g.ID, option: opt}
		}
	}

	perGroup := make(map[uint]int)
	seen := make(map[uint]bool)
	result := make([]CartItemOption, 0, len(selected))
	for _, id := range selected {
		r, ok := byID[id]
		if !ok {
			return nil, apperrors.Validation("option %d does not belong to this menu item", id)
		}
		if seen[id] {
			return nil, apperrors.Validation("option %d selected more than once", id)
		}
		if !r.option.IsAvailable {
			return nil, apperrors.Validation("option %q is not available", r.option.Name)
		}
		seen[id] = true
		perGroup[r.groupID]++
		result = append(result, CartItemOption{
			OptionID: r.option.ID,
			GroupID:  r.groupID,
			Name:     r.option.Name,
			Price:    r.option.Price,
		})
	}

	for _, g := range groups {
		n := perGroup[g.ID]
		if n < g.MinSelectable {
			return nil, apperrors.Validation("group %q requires at least %d selection(s), got %d", g.Name, g.MinSelectable, n)
		}
		if n > g.MaxSelectable {
			return nil, apperrors.Validation("group %q allows at most %d selection(s), got %d", g.Name, g.MaxSelectable, n)
		}
	}

	return result, nil
}
