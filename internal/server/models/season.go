// Package models holds the persisted records of the catalog.
package models

// Season is a top-level content unit. Numero orders seasons and is unique
// when present; the nullable columns map to nil pointers.
type Season struct {
	ID        int64   `db:"id"`
	Numero    *int    `db:"numero"`
	Titulo    *string `db:"titulo"`
	Descricao *string `db:"descricao"`
	Imagem    *string `db:"imagem"`
}

// Mission is a lesson inside a season, ordered by Numero.
type Mission struct {
	ID            int64   `db:"id"`
	SeasonID      int64   `db:"season_id"`
	Numero        int     `db:"numero"`
	Titulo        string  `db:"titulo"`
	VideoURL      *string `db:"video_url"`
	ConteudoApoio *string `db:"conteudo_apoio"`
}
