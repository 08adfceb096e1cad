package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument describes a futures class traded in two sizes: the standard
// contract and its micro.
type Instrument struct {
	Class           string
	Symbol          string
	MicroSymbol     string
	PointValue      decimal.Decimal // $ per point, standard contract
	MicroPointValue decimal.Decimal // $ per point, micro contract
}

var Instruments = map[string]Instrument{
	"NQ": {
		Class:           "NQ",
		Symbol:          "NQ",
		MicroSymbol:     "MNQ",
		PointValue:      decimal.NewFromInt(20),
		MicroPointValue: decimal.NewFromInt(2),
	},
	"ES": {
		Class:           "ES",
		Symbol:          "ES",
		MicroSymbol:     "MES",
		PointValue:      decimal.NewFromInt(50),
		MicroPointValue: decimal.NewFromInt(5),
	},
}

// Lookup resolves a ticker to its instrument class. Feed tickers such as
// "NQ=F" and micro symbols such as "MNQ" resolve to the class.
func Lookup(symbol string) (Instrument, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, "=F")

	if inst, ok := Instruments[s]; ok {
		return inst, nil
	}
	for _, inst := range Instruments {
		if inst.MicroSymbol == s {
			return inst, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, symbol)
}
