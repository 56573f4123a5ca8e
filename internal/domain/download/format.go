package download

// Kind classifies which streams a format carries.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindBoth  Kind = "both"
)

// Format is one selectable quality/codec variant of a source media item.
// Zero values for Height, FPS and Filesize mean the resolver reported no
// value for that field.
type Format struct {
	ID       string
	Height   int
	FPS      float64
	Filesize int64
	Ext      string
	Kind     Kind
}

// KindFromCodecs derives the format kind from resolver codec fields.
// The resolver reports "none" for an absent stream.
func KindFromCodecs(vcodec, acodec string) Kind {
	hasVideo := vcodec != "" && vcodec != "none"
	hasAudio := acodec != "" && acodec != "none"
	switch {
	case hasVideo && hasAudio:
		return KindBoth
	case hasVideo:
		return KindVideo
	default:
		return KindAudio
	}
}

// AuthContext carries optional authorization inputs passed through to the
// resolver untouched: a cookie-jar file path and site-specific extractor
// parameters. The orchestrator never inspects either.
type AuthContext struct {
	CookiesFile   string
	ExtractorArgs []string
}
