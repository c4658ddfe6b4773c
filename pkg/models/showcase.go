package models

import "time"

// ShowcaseRow identifies which landing-page strip an item belongs to.
type ShowcaseRow string

const (
	ShowcaseRowTop    ShowcaseRow = "top"
	ShowcaseRowBottom ShowcaseRow = "bottom"
)

func (r ShowcaseRow) Valid() bool {
	return r == ShowcaseRowTop || r == ShowcaseRowBottom
}

// MaxShowcaseRowItems caps each showcase row. The cap is enforced at the
// bulk-insert boundary; excess images in a batch are rejected, not queued.
const MaxShowcaseRowItems = 10

// ShowcaseItem is a curated public-gallery entry referencing a blob.
type ShowcaseItem struct {
	ID         string      `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	Category   string      `json:"category" db:"category"`
	ImageID    string      `json:"image_id" db:"image_id"`
	Row        ShowcaseRow `json:"row" db:"row"`
	BatchIndex int         `json:"-" db:"batch_index"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// HydratedShowcaseItem is a showcase item with its image payload resolved.
// Items whose blob no longer resolves are dropped from hydrated listings.
type HydratedShowcaseItem struct {
	ShowcaseItem
	ImageURL string `json:"image_url"`
}

// HeroExample is the landing page's singleton live-demo configuration.
// Missing fields fall back to the default literals below so the landing page
// always has something to render.
type HeroExample struct {
	ImageID string `json:"image_id,omitempty" db:"image_id"`
	Input   string `json:"input" db:"input"`
	Prompt  string `json:"prompt" db:"prompt"`
	Caption string `json:"caption" db:"caption"`
}

// HydratedHeroExample carries the resolved image payload; nil when the
// reference is absent or dangling.
type HydratedHeroExample struct {
	Image   *string `json:"image"`
	Input   string  `json:"input"`
	Prompt  string  `json:"prompt"`
	Caption string  `json:"caption"`
}

const (
	DefaultHeroInput = "Quero uma imagem do The Rock preparando um shake de " +
		"proteína, estilo futurista, luz neon roxa e azul, fumaça saindo do " +
		"pote, alta definição."
	DefaultHeroPrompt = "Hyper-realistic portrait of Dwayne 'The Rock' Johnson " +
		"pouring glowing red protein powder into a metallic shaker. Cyberpunk " +
		"gym atmosphere with intense purple and blue neon rim lights. " +
		"Volumetric fog, sweat texture on skin, focus on the muscular " +
		"vascularity. 8k resolution, cinematic composition, octane render."
	DefaultHeroCaption = "O momento é agora. Pare de esperar, comece a " +
		"construir. The Rock está te mostrando como. Nossa maior PROMOÇÃO do " +
		"ano está LIBERADA! Clique no link e use o código POWERUP para " +
		"garantir seu desconto. #PowerUpNow #TheRock #PromoDeVerdade #CyberGym"
)
