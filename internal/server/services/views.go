package services

// HomeView is the season/mission tree served by GetHome.
type HomeView struct {
	Rows []HomeSeason `json:"rows"`
}

type HomeSeason struct {
	ID        int64         `json:"id"`
	Numero    *int          `json:"numero"`
	Titulo    *string       `json:"titulo"`
	Descricao *string       `json:"descricao"`
	Imagem    *string       `json:"imagem"`
	Cards     []MissionCard `json:"cards"`
}

// MissionCard is a mission as rendered on the home screen.
type MissionCard struct {
	ID      int64  `json:"id"`
	Numero  int    `json:"numero"`
	Titulo  string `json:"titulo"`
	Thumb   string `json:"thumb"`
	Preview string `json:"preview"`
	Locked  bool   `json:"locked"`
}

// SeasonView carries every value under both its Portuguese and English key.
// Existing clients read either naming, so both are always emitted.
type SeasonView struct {
	ID          int64   `json:"id"`
	Numero      *int    `json:"numero"`
	Title       *string `json:"title"`
	Titulo      *string `json:"titulo"`
	Description *string `json:"description"`
	Descricao   *string `json:"descricao"`
	Image       string  `json:"image"`
	Imagem      string  `json:"imagem"`
}

type MissionView struct {
	ID            int64   `json:"id"`
	SeasonID      int64   `json:"season_id"`
	Numero        int     `json:"numero"`
	Titulo        string  `json:"titulo"`
	VideoURL      *string `json:"video_url"`
	ConteudoApoio *string `json:"conteudo_apoio"`
	Locked        bool    `json:"locked"`
}
