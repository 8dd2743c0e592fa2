package domain

// Distance is a magnitude tagged with the unit it is expressed in.
// Stored distances keep their unit so later preference changes do not
// reinterpret them.
type Distance struct {
	Value float64
	Unit  Unit
}

func Km(v float64) Distance { return Distance{Value: v, Unit: Kilometers} }

// In returns d expressed in unit u.
func (d Distance) In(u Unit) Distance {
	return Distance{Value: ConvertDistance(d.Value, d.Unit, u), Unit: u}
}

// Rounded returns d rounded to one decimal place for display.
func (d Distance) Rounded() Distance {
	return Distance{Value: Round1(d.Value), Unit: d.Unit}
}
