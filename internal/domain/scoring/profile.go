package scoring

import "github.com/okian/rowscore/internal/domain/model"

// Profile holds the three place scores of one location.
type Profile struct {
	Home    float64
	Work    float64
	Leisure float64
}

// Composite scores home and work first, then feeds both into leisure. Any
// HomeScore/WorkScore already present on l is replaced.
func Composite(h model.HomeRecord, w model.WorkRecord, l model.LeisureRecord) Profile {
	home := Home(h)
	work := Work(w)
	return Profile{
		Home:    home,
		Work:    work,
		Leisure: Leisure(l.WithScores(home, work)),
	}
}
