package imaging

// ImageRef is either a remote URL or locally-held bytes. The two cases flow
// through upload and normalization differently, so the distinction is an
// explicit tag rather than a runtime type check on a stringly field.
type ImageRef struct {
	kind     imageKind
	URL      string
	Data     []byte
	Filename string
	Mime     string
}

type imageKind int

const (
	imageNone imageKind = iota
	imageRemote
	imageLocal
)

// RemoteImage references an image hosted elsewhere, typically one the
// enrichment service generated.
func RemoteImage(url string) ImageRef {
	return ImageRef{kind: imageRemote, URL: url}
}

// LocalImage holds user-uploaded bytes not yet stored anywhere.
func LocalImage(data []byte, filename, mime string) ImageRef {
	return ImageRef{kind: imageLocal, Data: data, Filename: filename, Mime: mime}
}

func (r ImageRef) IsRemote() bool { return r.kind == imageRemote }
func (r ImageRef) IsLocal() bool  { return r.kind == imageLocal }
func (r ImageRef) IsZero() bool   { return r.kind == imageNone }
