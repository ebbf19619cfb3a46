package cleaner

// defaultDomains lists the consumer mail providers every installation knows about.
// Regional variants of the big providers are listed explicitly so the fuzzy stage
// does not pull them towards their neighbours (hotmail.fr is not a typo of hotmail.de).
var defaultDomains = []string{ //nolint: gochecknoglobals
	"gmail.com", "googlemail.com", "yahoo.com", "ymail.com", "yahoo.co.uk",
	"hotmail.com", "hotmail.co.uk", "hotmail.de", "outlook.com", "outlook.de", "live.com",
	"msn.com", "aol.com", "icloud.com", "me.com", "mail.com", "gmx.com", "gmx.de",
	"gmx.net", "web.de", "t-online.de", "freenet.de", "posteo.de", "online.de",
	"arcor.de", "email.de", "protonmail.com", "protonmail.de", "proton.me", "tutanota.com",
	"zoho.com", "yandex.com", "fastmail.com", "comcast.net", "verizon.net",
	"btinternet.com", "example.com", "yahoo.de", "yahoo.fr", "hotmail.fr", "outlook.fr",
	"live.de", "orange.fr", "laposte.net", "libero.it", "mail.ru", "yandex.ru", "gmx.at",
	"gmx.ch",
}

// defaultTypos maps frequent, well-known misspellings straight to their provider.
var defaultTypos = map[string]string{ //nolint: gochecknoglobals
	"gnail.com":   "gmail.com",
	"gnail.con":   "gmail.com",
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gamil.com":   "gmail.com",
	"gmal.com":    "gmail.com",
	"gmail.co":    "gmail.com",
	"hotmial.com": "hotmail.com",
	"hotmal.com":  "hotmail.com",
	"yahooo.com":  "yahoo.com",
	"yaho.com":    "yahoo.com",
	"outlok.com":  "outlook.com",
	"iclod.com":   "icloud.com",
	"icloud.co":   "icloud.com",
	"gmx.dee":     "gmx.de",
	"web.dee":     "web.de",
}

// DefaultReferenceTable returns the built-in reference table. Every call returns a
// fresh table, callers can extend it without affecting other users.
func DefaultReferenceTable() *ReferenceTable {
	table, err := NewReferenceTable(defaultDomains, defaultTypos)
	if err != nil {
		// the built-in data is covered by tests, reaching this is a programming error.
		panic(err)
	}

	return table
}
