package postgres

import (
	"database/sql"
	"time"
)

// PgDomain is a row of the reference_domains table.
type PgDomain struct {
	Domain    string    `db:"domain"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

// PgTypo is a row of the domain_typos table.
type PgTypo struct {
	Typo      string       `db:"typo"`
	Domain    string       `db:"domain"`
	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func domainsToPg(domains []string) []PgDomain {
	out := make([]PgDomain, len(domains))
	for i, d := range domains {
		out[i] = PgDomain{Domain: d}
	}

	return out
}

func typosToPg(typos map[string]string) []PgTypo {
	out := make([]PgTypo, 0, len(typos))
	for typo, d := range typos {
		out = append(out, PgTypo{Typo: typo, Domain: d})
	}

	return out
}
