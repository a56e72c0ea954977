package models

import "net/url"

// ProxyPath is the route that serves external assets on behalf of the browser
const ProxyPath = "/proxy"

// PlaceholderPath is the local asset substituted when an image fails to load
const PlaceholderPath = "/placeholder.svg"

// ImageRecord represents a single catalog entry backed by an external asset.
// Records are created once at load time and never mutated afterwards.
type ImageRecord struct {
	ID          string   `json:"id" yaml:"id" parquet:"id"`
	Title       string   `json:"title" yaml:"title" parquet:"title"` // Unique routing key
	Description string   `json:"description,omitempty" yaml:"description,omitempty" parquet:"description,optional"`
	Tags        []string `json:"tags" yaml:"tags" parquet:"tags,list"`
	AuthorID    string   `json:"author_id" yaml:"author_id" parquet:"author_id"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty" parquet:"category,optional"`
	Size        string   `json:"size,omitempty" yaml:"size,omitempty" parquet:"size,optional"`
	DateTime    int64    `json:"date_time" yaml:"date_time" parquet:"date_time"` // Seconds since epoch
	Src         string   `json:"src" yaml:"src" parquet:"src"`
}

// ImageView is the API representation of a record, including the URLs a
// browser should use to render it
type ImageView struct {
	ImageRecord `yaml:",inline"`
	ProxySrc    string `json:"proxy_src" yaml:"proxy_src"`
	FallbackSrc string `json:"fallback_src" yaml:"fallback_src"`
}

// ProxyURL returns the proxied URL for an external asset
func ProxyURL(src string) string {
	return ProxyPath + "?url=" + url.QueryEscape(src)
}

// NewImageView wraps a record with its proxy and fallback URLs
func NewImageView(r *ImageRecord) ImageView {
	return ImageView{
		ImageRecord: *r,
		ProxySrc:    ProxyURL(r.Src),
		FallbackSrc: PlaceholderPath,
	}
}

// NewImageViews converts a sequence of records into API views
func NewImageViews(records []*ImageRecord) []ImageView {
	views := make([]ImageView, 0, len(records))
	for _, r := range records {
		views = append(views, NewImageView(r))
	}
	return views
}
