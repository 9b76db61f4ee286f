package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agbru/nfloat/internal/config"
	"github.com/agbru/nfloat/internal/limb"
	"github.com/agbru/nfloat/internal/metrics"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/ui"
)

// Presenter writes results in the configured number format.
type Presenter struct {
	out     io.Writer
	format  byte
	digits  int
	quiet   bool
	verbose bool
}

// NewPresenter returns a presenter writing to out with the text settings of
// cfg.
func NewPresenter(out io.Writer, cfg config.AppConfig) *Presenter {
	return &Presenter{
		out:     out,
		format:  cfg.FormatByte(),
		digits:  cfg.TextDigits(),
		quiet:   cfg.Quiet,
		verbose: cfg.Verbose,
	}
}

// FormatFloat formats x under c.
func (p *Presenter) FormatFloat(c *nfloat.Context, x *nfloat.Float) string {
	return c.Text(x, p.format, p.digits)
}

// FormatComplex formats z as "a+bi" or "a-bi".
func (p *Presenter) FormatComplex(c *nfloat.Context, z *nfloat.Complex) string {
	sign := "+"
	var im nfloat.Float
	c.Abs(&im, &z.Im)
	if z.Im.Signbit() && !z.Im.IsNaN() {
		sign = "-"
	}
	return p.FormatFloat(c, &z.Re) + sign + p.FormatFloat(c, &im) + "i"
}

// Present writes r. In quiet mode only the value is written.
func (p *Presenter) Present(c *nfloat.Context, r Result) {
	switch {
	case r.Vector != nil:
		p.presentVector(c, r)
	case r.Complex != nil:
		p.presentValue(r, p.FormatComplex(c, r.Complex))
	case r.Real != nil:
		p.presentValue(r, p.FormatFloat(c, r.Real))
	}
	if p.quiet {
		return
	}
	p.presentStatus(r)
	if p.verbose {
		p.PresentContext(c, r.Algorithm)
	}
}

func (p *Presenter) presentValue(r Result, value string) {
	if p.quiet {
		fmt.Fprintln(p.out, value)
		return
	}
	fmt.Fprintf(p.out, "%s%s%s = %s%s%s\n",
		ui.ColorBold(), r.Op, ui.ColorReset(),
		ui.ColorGreen(), value, ui.ColorReset())
}

func (p *Presenter) presentVector(c *nfloat.Context, r Result) {
	if p.quiet {
		for i := range r.Vector {
			fmt.Fprintln(p.out, p.FormatFloat(c, &r.Vector[i]))
		}
		return
	}
	rows := make([][]string, len(r.Vector))
	for i := range r.Vector {
		rows[i] = []string{fmt.Sprintf("y[%d]", i), p.FormatFloat(c, &r.Vector[i])}
	}
	fmt.Fprintf(p.out, "%s%s%s\n", ui.ColorBold(), r.Op, ui.ColorReset())
	fmt.Fprintln(p.out, ui.RenderTable([]string{"Row", "Value"}, rows))
}

func (p *Presenter) presentStatus(r Result) {
	status := ui.Paint(ui.ColorGreen(), r.Status.String())
	if !r.Status.Ok() {
		status = ui.Paint(ui.ColorRed(), fmt.Sprintf("%s (%v)", r.Status, r.Status.Err()))
	}
	fmt.Fprintf(p.out, "  status: %s   time: %s%s%s\n",
		status, ui.ColorYellow(), FormatExecutionDuration(r.Duration), ui.ColorReset())
}

// PresentContext writes the settings of c as a table. algorithm is the
// complex multiplication strategy, or empty.
func (p *Presenter) PresentContext(c *nfloat.Context, algorithm string) {
	rows := [][]string{
		{"Precision", strconv.Itoa(c.Prec()) + " bits"},
		{"Limbs", strconv.Itoa(c.Limbs())},
		{"Flags", c.Flags().String()},
		{"Backend", c.Backend().Name()},
		{"Complex Karatsuba", strconv.Itoa(c.ComplexKaratsubaLimbs()) + " limbs"},
		{"Dot Karatsuba", strconv.Itoa(c.DotKaratsubaLimbs()) + " limbs"},
		{"Limb kernels", limb.Backend()},
		{"CPU", limb.GetCPUFeatures().String()},
	}
	if algorithm != "" {
		rows = append(rows, []string{"Complex product", algorithm})
	}
	fmt.Fprintln(p.out, ui.RenderTable([]string{"Setting", "Value"}, rows))
}

// PresentMemory writes the allocation summary of a run.
func (p *Presenter) PresentMemory(d metrics.MemoryDelta) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "  memory: %s%s%s\n", ui.ColorGrey(), d, ui.ColorReset())
}

// PresentError writes err to w in the error color.
func PresentError(w io.Writer, err error) {
	fmt.Fprintf(w, "%sError:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
}
