package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// Facts is everything the renderer needs to produce a ticket artifact. The
// renderer is pure: facts in, bytes out. Callers decide where output goes.
type Facts struct {
	PNR           string
	PassengerName string
	Airline       string
	FlightID      string
	DepartureCity string
	ArrivalCity   string
	BasePrice     int64
	FinalPrice    int64
	BookingDate   time.Time
}

type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(facts Facts) ([]byte, error) {
	if facts.PNR == "" {
		return nil, errors.New("ticket facts missing PNR")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "================ FLIGHT TICKET ================")
	fmt.Fprintf(&buf, "PNR:        %s\n", facts.PNR)
	fmt.Fprintf(&buf, "Passenger:  %s\n", facts.PassengerName)
	fmt.Fprintf(&buf, "Date:       %s\n", facts.BookingDate.Format("02 Jan 2006 15:04"))
	fmt.Fprintln(&buf, "-----------------------------------------------")
	fmt.Fprintf(&buf, "Airline:    %s\n", facts.Airline)
	fmt.Fprintf(&buf, "Flight:     %s\n", facts.FlightID)
	fmt.Fprintf(&buf, "Route:      %s -> %s\n", facts.DepartureCity, facts.ArrivalCity)
	fmt.Fprintln(&buf, "-----------------------------------------------")
	fmt.Fprintf(&buf, "Base Price: %d\n", facts.BasePrice)
	if facts.FinalPrice > facts.BasePrice {
		fmt.Fprintf(&buf, "Surge:      +%d\n", facts.FinalPrice-facts.BasePrice)
	}
	fmt.Fprintf(&buf, "TOTAL:      %d\n", facts.FinalPrice)
	fmt.Fprintln(&buf, "===============================================")
	return buf.Bytes(), nil
}
