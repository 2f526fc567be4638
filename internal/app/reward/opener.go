package reward

import (
	"log"

	"github.com/earnbox/earnbox/internal/domain"
)

// OpenerFunc adapts a function to domain.LinkOpener.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error { return f(url) }

// LogOpener records opened links in the log. The daemon uses it because the
// browser front-end opens the URL returned in the click response.
func LogOpener() domain.LinkOpener {
	return OpenerFunc(func(url string) error {
		log.Printf("[reward] open %s", url)
		return nil
	})
}
