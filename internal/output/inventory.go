package output

import (
	"fmt"

	"github.com/jenian/envsensei/internal/inventory"
)

// Inventory writes the reconciliation issues in the given format
func (f *Formatter) Inventory(format Format, issues []inventory.Issue) error {
	if format == FormatJSON {
		return f.inventoryJSON(issues)
	}
	return f.inventoryText(issues)
}

func (f *Formatter) inventoryText(issues []inventory.Issue) error {
	missing, unused := groupIssues(issues)
	manifest := f.cfg.EnvExampleFileName

	if len(missing) > 0 {
		fmt.Fprintf(f.w, "%s%sMissing in %s:%s\n\n", f.getColor(colorBold), f.getColor(colorRed), manifest, f.getColor(colorReset))
		for _, v := range missing {
			fmt.Fprintf(f.w, "  %s%s%s\n", f.getColor(colorRed), v.Name, f.getColor(colorReset))
			for _, loc := range v.Locations {
				fmt.Fprintf(f.w, "    %sused in:%s %s%s%s\n", f.getColor(colorGray), f.getColor(colorReset), f.getColor(colorCyan), loc, f.getColor(colorReset))
			}
		}
		fmt.Fprintln(f.w)
	}

	if len(unused) > 0 {
		fmt.Fprintf(f.w, "%s%sUnused in code:%s\n\n", f.getColor(colorBold), f.getColor(colorYellow), f.getColor(colorReset))
		for _, v := range unused {
			fmt.Fprintf(f.w, "  %s%s%s %s(in %s)%s\n", f.getColor(colorYellow), v.Name, f.getColor(colorReset), f.getColor(colorGray), v.Locations[0], f.getColor(colorReset))
		}
		fmt.Fprintln(f.w)
	}

	if len(missing) == 0 && len(unused) == 0 {
		fmt.Fprintf(f.w, "%s%s✓ No issues found. %s matches the code.%s\n", f.getColor(colorGreen), f.getColor(colorBold), manifest, f.getColor(colorReset))
	}
	return nil
}
