package reward

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Default surface parameters.
const (
	DefaultSlots        = 20
	DefaultCooldown     = 60 * time.Second
	DefaultConfirmDelay = 2 * time.Minute

	// TickInterval is how often slot cooldowns count down.
	TickInterval = time.Second
)

// DefaultCredit is the amount posted for one completed action.
var DefaultCredit = decimal.RequireFromString("0.50")

// Variant selects the slot lifecycle of a surface.
type Variant int

const (
	// Immediate surfaces credit on the click itself.
	Immediate Variant = iota
	// Delayed surfaces require a confirm click and credit after ConfirmDelay.
	Delayed
)

func (v Variant) String() string {
	if v == Delayed {
		return "delayed"
	}
	return "immediate"
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Config parameterizes one reward surface.
type Config struct {
	Name         string          // Surface id used in URLs and metrics
	Title        string          // Display heading
	Variant      Variant         // Immediate or Delayed
	Slots        int             // Number of independent slots
	Credit       decimal.Decimal // Amount posted per completed action
	ConfirmDelay time.Duration   // Delay between confirm and credit (Delayed only)
	Cooldown     time.Duration   // Lockout after a credit, whole seconds
	Source       string          // Ledger source label for credits
	IdleLabel    string          // Button text while idle
	Links        []string        // External link per slot, cycled if short
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("reward: surface name is required")
	case c.Slots <= 0:
		return fmt.Errorf("reward: %s: slots must be positive, got %d", c.Name, c.Slots)
	case !c.Credit.IsPositive():
		return fmt.Errorf("reward: %s: credit must be positive, got %s", c.Name, c.Credit)
	case c.Cooldown < 0:
		return fmt.Errorf("reward: %s: cooldown must not be negative", c.Name)
	case c.Variant == Delayed && c.ConfirmDelay < 0:
		return fmt.Errorf("reward: %s: confirm delay must not be negative", c.Name)
	case c.Source == "":
		return fmt.Errorf("reward: %s: source label is required", c.Name)
	}
	return nil
}

// link returns the URL bound to slot i.
func (c Config) link(i int) string {
	if len(c.Links) == 0 {
		return ""
	}
	return c.Links[i%len(c.Links)]
}

// ─── Built-in Surfaces ──────────────────────────────────────────────────────

// WatchConfig is the immediate "Watch & Earn" surface.
func WatchConfig() Config {
	return Config{
		Name:      "watch",
		Title:     "Watch & Earn",
		Variant:   Immediate,
		Slots:     DefaultSlots,
		Credit:    DefaultCredit,
		Cooldown:  DefaultCooldown,
		Source:    "Video Watched",
		IdleLabel: "Watch Video",
		Links: []string{
			"https://www.tiktok.com/t/ZPRT7sD5R/",
			"https://www.tiktok.com/t/ZPRT7sLqC/",
			"https://www.tiktok.com/t/ZPRT7s2pS/",
			"https://www.tiktok.com/t/ZPRT7s9d8/",
			"https://www.tiktok.com/t/ZPRT7suyE/",
			"https://www.tiktok.com/t/ZPRT7sFoC/",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/watch?v=3JZ_D3ELwOQ",
			"https://www.youtube.com/watch?v=9bZkp7q19f0",
			"https://www.youtube.com/watch?v=kffacxfA7G4",
			"https://www.youtube.com/watch?v=kJQP7kiw5Fk",
			"https://www.youtube.com/watch?v=JGwWNGJdvx8",
			"https://www.youtube.com/watch?v=nfWlot6h_JM",
			"https://www.youtube.com/watch?v=09R8_2nJtjg",
			"https://www.youtube.com/watch?v=C0DPdy98e4c",
			"https://www.youtube.com/watch?v=H5v3kku4y6Q",
			"https://www.youtube.com/watch?v=fRh_vgS2dFE",
			"https://www.youtube.com/watch?v=l_n_S4Qv59g",
			"https://www.youtube.com/watch?v=RgKAFK5djSk",
			"https://www.tiktok.com/t/ZPRT7s5bY/",
		},
	}
}

// LikeConfig is the delayed "Like & Earn" surface.
func LikeConfig() Config {
	return delayed("like", "Like & Earn", "Video Liked (Confirmed)", "Like Video", []string{
		"https://www.tiktok.com/t/ZPRT7h3vG/",
		"https://www.tiktok.com/t/ZPRT7hG5j/",
		"https://www.tiktok.com/t/ZPRT7hYpC/",
		"https://www.tiktok.com/t/ZPRT7hBfW/",
		"https://www.tiktok.com/t/ZPRT7h5M4/",
		"https://www.tiktok.com/t/ZPRT7h9jE/",
		"https://www.youtube.com/watch?v=u9Dg-g7t2l4",
		"https://www.youtube.com/watch?v=60ItHLz5WEA",
		"https://www.youtube.com/watch?v=2Vv-BfVoq4g",
		"https://www.youtube.com/watch?v=K4DyBUG242c",
		"https://www.youtube.com/watch?v=hT_nvWreIhg",
		"https://www.youtube.com/watch?v=tQ0yjYUFKAE",
		"https://www.youtube.com/watch?v=8-0_w2d-S6s",
		"https://www.youtube.com/watch?v=1-xGerv5FOk",
		"https://www.youtube.com/watch?v=DK_0jXPuIr0",
		"https://www.youtube.com/watch?v=y2-rZGanx_M",
		"https://www.youtube.com/watch?v=fPO76Jlnz6c",
		"https://www.youtube.com/watch?v=pXRviuL6vMY",
		"https://www.youtube.com/watch?v=pAgnJDJN4VA",
		"https://www.tiktok.com/t/ZPRT7h2Xw/",
	})
}

// CommentConfig is the delayed "Comment & Earn" surface.
func CommentConfig() Config {
	return delayed("comment", "Comment & Earn", "Video Commented (Confirmed)", "Comment on Video", []string{
		"https://www.tiktok.com/t/ZPRT7vEWW/",
		"https://www.tiktok.com/t/ZPRT7vjD9/",
		"https://www.tiktok.com/t/ZPRT7v5oN/",
		"https://www.tiktok.com/t/ZPRT7v3Wb/",
		"https://www.tiktok.com/t/ZPRT7vM2k/",
		"https://www.tiktok.com/t/ZPRT7vC1q/",
		"https://www.youtube.com/watch?v=d-jbBNg8YKE",
		"https://www.youtube.com/watch?v=l_EaNqT3isY",
		"https://www.youtube.com/watch?v=lWA2pjMjpBs",
		"https://www.youtube.com/watch?v=x-64CaD8GXw",
		"https://www.youtube.com/watch?v=xWcldHxI3aI",
		"https://www.youtube.com/watch?v=4TjcT7Gkgrs",
		"https://www.youtube.com/watch?v=W-w3WfgpcPs",
		"https://www.youtube.com/watch?v=Qc7_zRjH808",
		"https://www.youtube.com/watch?v=rTVjnBo96Ug",
		"https://www.youtube.com/watch?v=i0p1bmr0EmE",
		"https://www.youtube.com/watch?v=d9MyW72ELq0",
		"https://www.youtube.com/watch?v=e-ORhEE9VVg",
		"https://www.youtube.com/watch?v=OPf0YbXqDm0",
		"https://www.tiktok.com/t/ZPRT7vSDB/",
	})
}

// ShareConfig is the delayed "Share & Earn" surface.
func ShareConfig() Config {
	return delayed("share", "Share & Earn", "Video Shared (Confirmed)", "Share Video", []string{
		"https://www.tiktok.com/t/ZPRT7avs6/",
		"https://www.tiktok.com/t/ZPRT7aA7N/",
		"https://www.tiktok.com/t/ZPRT7aGjB/",
		"https://www.tiktok.com/t/ZPRT7a2xL/",
		"https://www.tiktok.com/t/ZPRT7adKb/",
		"https://www.tiktok.com/t/ZPRT7aT3C/",
		"https://www.youtube.com/watch?v=uelHwf8o7_U",
		"https://www.youtube.com/watch?v=PT2_F-1esPk",
		"https://www.youtube.com/watch?v=V-_O7nl0Ii0",
		"https://www.youtube.com/watch?v=b8m9zhNAgKs",
		"https://www.youtube.com/watch?v=34Na4j8AVgA",
		"https://www.youtube.com/watch?v=hY7m5jjJ9mM",
		"https://www.youtube.com/watch?v=zO2rA7V1a-s",
		"https://www.youtube.com/watch?v=zABLzdDqS4w",
		"https://www.youtube.com/watch?v=5qm8PH4xAss",
		"https://www.youtube.com/watch?v=nu_pCVPKzTk",
		"https://www.youtube.com/watch?v=QRgfhA0sO6I",
		"https://www.youtube.com/watch?v=tCXGJQYZ9JA",
		"https://www.youtube.com/watch?v=IcrbM1l_BoI",
		"https://www.tiktok.com/t/ZPRT7aY4Y/",
	})
}

// DefaultConfigs returns the four built-in surfaces in display order.
func DefaultConfigs() []Config {
	return []Config{WatchConfig(), LikeConfig(), CommentConfig(), ShareConfig()}
}

func delayed(name, title, source, idle string, links []string) Config {
	return Config{
		Name:         name,
		Title:        title,
		Variant:      Delayed,
		Slots:        DefaultSlots,
		Credit:       DefaultCredit,
		ConfirmDelay: DefaultConfirmDelay,
		Cooldown:     DefaultCooldown,
		Source:       source,
		IdleLabel:    idle,
		Links:        links,
	}
}
