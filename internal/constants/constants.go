package constants

import "time"

const AppName = "tix-q"

// PlayNiceResponse is appended to every applicant-caused rejection. It is a
// deliberate deterrence device aimed at people poking the endpoint from the
// dev console; keep it verbose and personal.
const PlayNiceResponse = `
Hey %s!,
I know going to this event is important to you, but please don't hack me.
I'm running this as a free service for the community, and I'm doing my best to make sure everyone gets a fair chance.
If you think this is a mistake, please contact me.
If you're running a bot, please stop.
Toodles ❤️
Soof
`

const (
	// Lookup cache sizing. Rooms rarely change once published, user records
	// are immutable aside from email refresh.
	LookupCacheTTL        = 5 * time.Minute
	LookupCacheMaxEntries = 1024

	// Turnstile siteverify call
	TurnstileVerifyURL   = "https://challenges.cloudflare.com/turnstile/v0/siteverify/"
	TurnstileTimeout     = 5 * time.Second
	TurnstileTokenHeader = "X-Turnstile-Token"
	TurnstileTokenCookie = "turnstile_token"

	// Deploy hook (fire-and-forget; must never block the request path)
	DeployHookTimeout = 10 * time.Second
)

var DevCORSOrigins = []string{
	"http://localhost:8080",
	"http://localhost:3000",
}
