package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/nfloat/internal/cli"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/ui"
)

// printCalibrationResults prints one table of measurements and marks the
// chosen crossover.
func printCalibrationResults(out io.Writer, title string, results []Measurement, crossover int) {
	fmt.Fprintf(out, "\n--- %s ---\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sSize%s\t%sStandard%s\t%sKaratsuba%s\t\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", strings.Repeat("─", 18), strings.Repeat("─", 10), strings.Repeat("─", 10))
	for _, res := range results {
		size := fmt.Sprintf("%d limbs (%d bits)", res.Limbs, res.Limbs*nfloat.W)
		if res.Err != nil {
			fmt.Fprintf(tw, "  %s\t%sN/A%s\t%sN/A%s\t\n", size, ui.ColorRed(), ui.ColorReset(), ui.ColorRed(), ui.ColorReset())
			continue
		}
		mark := ""
		if res.Limbs == crossover {
			mark = " " + ui.Paint(ui.ColorGreen(), "(crossover)")
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s%s\t\n",
			ui.ColorCyan(), size, ui.ColorReset(),
			cli.FormatExecutionDuration(res.Standard),
			cli.FormatExecutionDuration(res.Karatsuba), mark)
	}
	tw.Flush()
	if crossover >= Never {
		fmt.Fprintf(out, "  Karatsuba never won; the four-product form is kept at every size.\n")
	}
}
