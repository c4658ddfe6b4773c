package models

// Concept is one creative concept produced by the generation collaborator.
// Concepts are immutable values; they are stored verbatim in history records.
type Concept struct {
	Headline         *string `json:"headline"`
	Explanation      string  `json:"explanation"`
	Prompt           string  `json:"prompt"`
	NegativePrompt   string  `json:"negative_prompt"`
	InstagramCaption string  `json:"instagram_caption"`
	VideoPrompt      *string `json:"video_prompt,omitempty"`
}

// Brief is the structured input of a generation request. Image fields carry
// base64-encoded payloads and are optional.
type Brief struct {
	Niche             string `json:"niche" binding:"required"`
	Theme             string `json:"theme" binding:"required"`
	AdditionalContext string `json:"additional_context,omitempty"`
	AspectRatio       string `json:"aspect_ratio"`
	IncludeHeadline   bool   `json:"include_headline"`
	StyleFidelity     int    `json:"style_fidelity"` // 0-100
	BaseImage         string `json:"base_image,omitempty"`
	StyleImage        string `json:"style_image,omitempty"`
	ProductImage      string `json:"product_image,omitempty"`
	IncludeVideo      bool   `json:"include_video,omitempty"`
	VideoContext      string `json:"video_context,omitempty"`
}

// GeneratedResponse is the collaborator's wire envelope.
type GeneratedResponse struct {
	Concepts []Concept `json:"concepts"`
}

// ConceptCount is the number of concepts a successful generation returns.
const ConceptCount = 3
