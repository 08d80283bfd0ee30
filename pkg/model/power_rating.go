package model

import "fmt"

// PowerRating is the closed set of product types, expressed in kilowatts.
type PowerRating int

const (
	PowerRatingUnknown PowerRating = iota
	PowerRating2_2KW
	PowerRating3_3KW
	PowerRating4KW
	PowerRating5KW
	PowerRating6KW
	PowerRating7KW
	PowerRating8_8KW
	PowerRating10KW
	PowerRating12KW
	PowerRating20KW
	PowerRating50KW
)

type ratingSpec struct {
	tag       string
	kilowatts float64
}

var ratingSpecs = map[PowerRating]ratingSpec{
	PowerRating2_2KW: {tag: "2.2", kilowatts: 2.2},
	PowerRating3_3KW: {tag: "3.3", kilowatts: 3.3},
	PowerRating4KW:   {tag: "4", kilowatts: 4},
	PowerRating5KW:   {tag: "5", kilowatts: 5},
	PowerRating6KW:   {tag: "6", kilowatts: 6},
	PowerRating7KW:   {tag: "7", kilowatts: 7},
	PowerRating8_8KW: {tag: "8.8", kilowatts: 8.8},
	PowerRating10KW:  {tag: "10", kilowatts: 10},
	PowerRating12KW:  {tag: "12", kilowatts: 12},
	PowerRating20KW:  {tag: "20", kilowatts: 20},
	PowerRating50KW:  {tag: "50", kilowatts: 50},
}

// PowerRatings returns every option in display order.
func PowerRatings() []PowerRating {
	return []PowerRating{
		PowerRating2_2KW,
		PowerRating3_3KW,
		PowerRating4KW,
		PowerRating5KW,
		PowerRating6KW,
		PowerRating7KW,
		PowerRating8_8KW,
		PowerRating10KW,
		PowerRating12KW,
		PowerRating20KW,
		PowerRating50KW,
	}
}

// ParsePowerRating resolves an option tag ("5", "8.8") back to its rating.
func ParsePowerRating(tag string) (PowerRating, bool) {
	for rating, spec := range ratingSpecs {
		if spec.tag == tag {
			return rating, true
		}
	}
	return PowerRatingUnknown, false
}

// Valid reports whether r is a member of the closed set.
func (r PowerRating) Valid() bool {
	_, ok := ratingSpecs[r]
	return ok
}

// Tag is the value bound to the productType field when r is selected.
func (r PowerRating) Tag() string {
	return ratingSpecs[r].tag
}

// Kilowatts is the numeric payload sent to the API.
func (r PowerRating) Kilowatts() float64 {
	return ratingSpecs[r].kilowatts
}

// Label is the text shown in the option list.
func (r PowerRating) Label() string {
	if !r.Valid() {
		return ""
	}
	return r.Tag() + " kw"
}

func (r PowerRating) String() string {
	if !r.Valid() {
		return fmt.Sprintf("PowerRating(%d)", int(r))
	}
	return r.Label()
}

// Option converts r into a generic field option.
func (r PowerRating) Option() Option {
	return Option{Label: r.Label(), Value: r.Tag()}
}
