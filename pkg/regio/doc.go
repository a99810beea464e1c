// Package regio reads and writes ClockMatrix registers over a byte-addressed
// bus.
//
// The bus only carries an 8-bit offset, so every transfer is preceded by a
// write of the address page to the page-select registers (see
// regmap.PageMode). The page is selected again before every transfer; the
// device may be touched by other masters between calls.
//
//	dev := regio.New(regio.NewI2CBus(i2c, 0x5b), regio.Options{
//	    Logger: log.NewSlogAdapter(slog.Default()),
//	})
//	loc, p, err := dev.ReadPath(ctx, "DPLL[0].DPLL_MODE")
//
// A Device is not safe for concurrent use: page selection and the transfer
// are separate bus transactions. Callers sharing a bus must serialize.
package regio
