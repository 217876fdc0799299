package loader

import (
	"github.com/geocine/digsite/internal/models"
	"github.com/geocine/digsite/internal/siteerr"
)

// validateModule checks that every page of a module names the module it
// belongs to. A mismatch marks the module failed; assembly continues.
func (sl *SiteLoader) validateModule(modID models.NodeID) {
	mod := sl.site.Node(modID)

	var check func(id models.NodeID) error
	check = func(id models.NodeID) error {
		n := sl.site.Node(id)
		if n.Kind == models.PageNode && n.Page != nil {
			got := n.Page.ModuleShortTitle
			if got != "" && got != mod.ShortName {
				return siteerr.Validationf(siteerr.ErrInconsistentModule,
					"page %s is filed under module %q, not %q", n.Page.PageNum, got, mod.ShortName)
			}
		}
		for _, c := range n.Children {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := check(modID); err != nil {
		sl.site.MarkFailed(modID, err)
		sl.failures = append(sl.failures, err)
		sl.logger.Warn("module failed validation", "module", mod.ShortName, "error", err)
	}
}
