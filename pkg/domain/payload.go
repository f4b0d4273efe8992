package domain

// Payload is the Slack-compatible incoming webhook body. IconEmoji and
// IconURL are mutually exclusive.
type Payload struct {
	Text        string              `json:"text"`
	LinkNames   bool                `json:"link_names"`
	Username    string              `json:"username,omitempty"`
	IconEmoji   string              `json:"icon_emoji,omitempty"`
	IconURL     string              `json:"icon_url,omitempty"`
	Channel     string              `json:"channel"`
	Attachments []PayloadAttachment `json:"attachments"`
}

// PayloadAttachment groups rendered fields under an optional text block.
type PayloadAttachment struct {
	Text   string         `json:"text,omitempty"`
	Fields []PayloadField `json:"fields,omitempty"`
}

// PayloadField is the wire form of RenderedField.
type PayloadField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short,omitempty"`
}

// Delivery is one independent unit of work: a payload bound to a webhook
// URL and a single channel.
type Delivery struct {
	URL     string  `json:"url"`
	Payload Payload `json:"payload"`
}
