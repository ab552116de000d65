package folio

import (
	"time"

	"github.com/alnah/go-folio/internal/dateutil"
)

// ResolveDate returns the text of the generation line. "auto" formats t as
// YYYY-MM-DD; "auto:FORMAT" uses FORMAT, a token format such as "DD/MM/YYYY"
// or one of the presets iso, european, us and long. Other values are
// returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
