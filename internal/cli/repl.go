package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/nfloat/internal/config"
	"github.com/agbru/nfloat/internal/nfloat"
	"github.com/agbru/nfloat/internal/ring"
	"github.com/agbru/nfloat/internal/ui"
)

// REPL is an interactive reverse Polish calculator. Numbers are pushed on
// a stack; operators pop their operands and push the result.
type REPL struct {
	config    config.AppConfig
	ctx       *nfloat.Context
	table     *ring.Table[nfloat.Float]
	stack     []nfloat.Float
	presenter *Presenter
	recorder  Recorder
	in        io.Reader
	out       io.Writer
}

type stackOp struct {
	arity int
	help  string
	apply func(c *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status
}

func binaryOp(f func(c *nfloat.Context, z, x, y *nfloat.Float) nfloat.Status) func(*nfloat.Context, *nfloat.Float, []nfloat.Float) nfloat.Status {
	return func(c *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
		return f(c, z, &args[0], &args[1])
	}
}

func unaryOp(f func(c *nfloat.Context, z, x *nfloat.Float) nfloat.Status) func(*nfloat.Context, *nfloat.Float, []nfloat.Float) nfloat.Status {
	return func(c *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
		return f(c, z, &args[0])
	}
}

var stackOps = map[string]stackOp{
	"+":     {2, "x + y", binaryOp((*nfloat.Context).Add)},
	"-":     {2, "x - y", binaryOp((*nfloat.Context).Sub)},
	"*":     {2, "x × y", binaryOp((*nfloat.Context).Mul)},
	"/":     {2, "x / y", binaryOp((*nfloat.Context).Div)},
	"sqrt":  {1, "square root", unaryOp((*nfloat.Context).Sqrt)},
	"rsqrt": {1, "reciprocal square root", unaryOp((*nfloat.Context).Rsqrt)},
	"inv":   {1, "reciprocal", unaryOp((*nfloat.Context).Inv)},
	"sqr":   {1, "square", unaryOp((*nfloat.Context).Sqr)},
	"neg": {1, "negation", func(c *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
		c.Neg(z, &args[0])
		return nfloat.Success
	}},
	"abs": {1, "absolute value", func(c *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
		c.Abs(z, &args[0])
		return nfloat.Success
	}},
}

// NewREPL returns a REPL evaluating under c, reading stdin and writing
// stdout. recorder may be nil.
func NewREPL(cfg config.AppConfig, c *nfloat.Context, recorder Recorder) *REPL {
	return &REPL{
		config:    cfg,
		ctx:       c,
		table:     ring.Real(c),
		presenter: NewPresenter(os.Stdout, cfg),
		recorder:  recorder,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// SetInput sets the input source (for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets the output destination (for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
	r.presenter.out = out
}

// Stack returns the stack, bottom first.
func (r *REPL) Stack() []nfloat.Float { return r.stack }

// Context returns the context the REPL evaluates under.
func (r *REPL) Context() *nfloat.Context { return r.ctx }

// Start runs the read-eval-print loop until "quit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprintf(r.out, "%snfcalc>%s ", ui.ColorGreen(), ui.ColorReset())
		if !scanner.Scan() {
			fmt.Fprintf(r.out, "\n%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
			return
		}
		if !r.processCommand(scanner.Text()) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╭─────────────────────────────────────────────╮%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s│%s  %snfcalc%s  reverse Polish calculator          %s│%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╰─────────────────────────────────────────────╯%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "Precision: %s%d bits%s. Type %shelp%s for commands.\n\n",
		ui.ColorMagenta(), r.ctx.Prec(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "\n%sOperators:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range []string{"+", "-", "*", "/", "sqrt", "rsqrt", "inv", "sqr", "neg", "abs"} {
		fmt.Fprintf(r.out, "  %s%-6s%s %s\n", ui.ColorYellow(), name, ui.ColorReset(), stackOps[name].help)
	}
	fmt.Fprintf(r.out, "\n%sWhole stack:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssum%s                sum of every entry, rounded once\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spoly%s               polynomial below x at x, highest degree pushed first\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "\n%sStack:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdup swap drop clear%s\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sshow%s               print the stack\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "\n%sSettings:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sprec [bits]%s        show or change the precision\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             show the context\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %stypes [name]%s       list registered types or one type's operations\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s, %squit%s\n\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand evaluates one input line and reports whether the loop
// should continue. Tokens run left to right; the first failing token stops
// the line.
func (r *REPL) processCommand(input string) bool {
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return true
	}

	switch cmd := strings.ToLower(tokens[0]); cmd {
	case "quit", "exit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	case "help", "h", "?":
		r.printHelp()
		return true
	case "prec":
		r.cmdPrec(tokens[1:])
		return true
	case "status", "st":
		r.presenter.PresentContext(r.ctx, "")
		return true
	case "types":
		r.cmdTypes(tokens[1:])
		return true
	}

	for _, tok := range tokens {
		if err := r.eval(tok); err != nil {
			fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return true
		}
	}
	if len(r.stack) > 0 {
		fmt.Fprintf(r.out, "%s\n", ui.Paint(ui.ColorGreen(), r.format(&r.stack[len(r.stack)-1])))
	}
	return true
}

func (r *REPL) format(x *nfloat.Float) string { return r.presenter.FormatFloat(r.ctx, x) }

func (r *REPL) need(tok string, n int) error {
	if len(r.stack) < n {
		return fmt.Errorf("%s: needs %d operands, stack has %d", tok, n, len(r.stack))
	}
	return nil
}

func (r *REPL) eval(tok string) error {
	switch strings.ToLower(tok) {
	case "dup":
		if err := r.need(tok, 1); err != nil {
			return err
		}
		var z nfloat.Float
		r.ctx.Set(&z, &r.stack[len(r.stack)-1])
		r.stack = append(r.stack, z)
		return nil
	case "swap":
		if err := r.need(tok, 2); err != nil {
			return err
		}
		n := len(r.stack)
		r.ctx.Swap(&r.stack[n-2], &r.stack[n-1])
		return nil
	case "drop":
		if err := r.need(tok, 1); err != nil {
			return err
		}
		r.stack = r.stack[:len(r.stack)-1]
		return nil
	case "clear":
		r.stack = r.stack[:0]
		return nil
	case "show", "stack", "s":
		r.printStack()
		return nil
	case "sum":
		// The sum of an empty stack is zero.
		return r.apply(tok, len(r.stack), func(_ *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
			return ring.Sum(r.table, z, args)
		})
	case "poly":
		if err := r.need(tok, 2); err != nil {
			return err
		}
		return r.apply(tok, len(r.stack), func(_ *nfloat.Context, z *nfloat.Float, args []nfloat.Float) nfloat.Status {
			x := &args[len(args)-1]
			coeffs := make([]nfloat.Float, len(args)-1)
			for i := range coeffs {
				coeffs[i] = args[len(args)-2-i]
			}
			return ring.Horner(r.table, z, coeffs, x)
		})
	}

	if op, ok := stackOps[strings.ToLower(tok)]; ok {
		return r.apply(tok, op.arity, op.apply)
	}

	var z nfloat.Float
	st, err := r.ctx.SetString(&z, tok)
	if err != nil {
		return fmt.Errorf("unknown command or number: %s", tok)
	}
	if !st.Ok() {
		return fmt.Errorf("%s: %w", tok, st.Err())
	}
	r.stack = append(r.stack, z)
	return nil
}

// apply replaces the top arity entries of the stack with f of them. A
// failing operation leaves the stack unchanged.
func (r *REPL) apply(tok string, arity int, f func(*nfloat.Context, *nfloat.Float, []nfloat.Float) nfloat.Status) error {
	if err := r.need(tok, arity); err != nil {
		return err
	}
	base := len(r.stack) - arity
	var z nfloat.Float
	start := time.Now()
	st := f(r.ctx, &z, r.stack[base:])
	if r.recorder != nil {
		r.recorder.ObserveOperation("repl_"+strings.ToLower(tok), time.Since(start), st)
	}
	if !st.Ok() {
		return fmt.Errorf("%s: %w", tok, st.Err())
	}
	r.stack = append(r.stack[:base], z)
	return nil
}

func (r *REPL) printStack() {
	if len(r.stack) == 0 {
		fmt.Fprintf(r.out, "%s(empty)%s\n", ui.ColorGrey(), ui.ColorReset())
		return
	}
	for i := range r.stack {
		fmt.Fprintf(r.out, "  %s%d:%s %s\n", ui.ColorGrey(), len(r.stack)-1-i, ui.ColorReset(), r.format(&r.stack[i]))
	}
}

// cmdPrec shows the precision, or switches to a new one and rounds the
// stack into it.
func (r *REPL) cmdPrec(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Precision: %s%d bits%s (%d limbs)\n", ui.ColorCyan(), r.ctx.Prec(), ui.ColorReset(), r.ctx.Limbs())
		return
	}
	prec, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid precision: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	c, err := r.config.NewContext(prec)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	for i := range r.stack {
		// Values outside big.Float's exponent range cannot be carried over.
		if f, st := r.ctx.BigFloat(&r.stack[i]); st.Ok() {
			c.SetBigFloat(&r.stack[i], f)
		} else {
			c.Zero(&r.stack[i])
		}
	}
	r.ctx = c
	r.table = ring.Real(c)
	fmt.Fprintf(r.out, "Precision changed to %s%d bits%s\n", ui.ColorGreen(), c.Prec(), ui.ColorReset())
}

// cmdTypes lists the registered ring types, or the operations of one.
func (r *REPL) cmdTypes(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%s\n", strings.Join(ring.Names(), " "))
		return
	}
	var (
		methods []string
		err     error
	)
	if name := strings.ToLower(args[0]); ring.IsComplex(name) {
		var t *ring.Table[nfloat.Complex]
		if t, err = ring.LookupComplex(name); err == nil {
			methods = t.Methods()
		}
	} else {
		var t *ring.Table[nfloat.Float]
		if t, err = ring.LookupReal(name); err == nil {
			methods = t.Methods()
		}
	}
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s: %s\n", args[0], strings.Join(methods, " "))
}
