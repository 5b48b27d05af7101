package format

// Format describes an image format known to the gate.
type Format struct {
	// Name identifies the format, e.g. "png".
	Name string
	// Extensions lists lower-case file extensions without the leading dot.
	Extensions []string
	// MIMETypes lists the media types servers send for the format.
	MIMETypes []string
}

// Well-known format names.
const (
	PNG  = "png"
	JPEG = "jpeg"
	GIF  = "gif"
	WebP = "webp"
	BMP  = "bmp"
	TIFF = "tiff"
	ICO  = "ico"
	AVIF = "avif"
	TGA  = "tga"
	QOI  = "qoi"
	PNM  = "pnm"
	HDR  = "hdr"
	EXR  = "exr"
	DDS  = "dds"
)

// Known is the table of formats the gate can name. Whether a format is
// readable is decided separately by the gate's enabled set.
var Known = []Format{
	{Name: PNG, Extensions: []string{"png", "apng"}, MIMETypes: []string{"image/png", "image/apng"}},
	{Name: JPEG, Extensions: []string{"jpg", "jpeg", "jfif", "jpe"}, MIMETypes: []string{"image/jpeg", "image/pjpeg"}},
	{Name: GIF, Extensions: []string{"gif"}, MIMETypes: []string{"image/gif"}},
	{Name: WebP, Extensions: []string{"webp"}, MIMETypes: []string{"image/webp"}},
	{Name: BMP, Extensions: []string{"bmp"}, MIMETypes: []string{"image/bmp", "image/x-bmp", "image/x-ms-bmp"}},
	{Name: TIFF, Extensions: []string{"tif", "tiff"}, MIMETypes: []string{"image/tiff"}},
	{Name: ICO, Extensions: []string{"ico"}, MIMETypes: []string{"image/x-icon", "image/vnd.microsoft.icon"}},
	{Name: AVIF, Extensions: []string{"avif"}, MIMETypes: []string{"image/avif"}},
	{Name: TGA, Extensions: []string{"tga"}, MIMETypes: []string{"image/x-tga", "image/x-targa"}},
	{Name: QOI, Extensions: []string{"qoi"}, MIMETypes: []string{"image/qoi"}},
	{Name: PNM, Extensions: []string{"pbm", "pam", "ppm", "pgm"}, MIMETypes: []string{"image/x-portable-anymap", "image/x-portable-bitmap", "image/x-portable-graymap", "image/x-portable-pixmap"}},
	{Name: HDR, Extensions: []string{"hdr"}, MIMETypes: []string{"image/vnd.radiance"}},
	{Name: EXR, Extensions: []string{"exr"}, MIMETypes: []string{"image/x-exr"}},
	{Name: DDS, Extensions: []string{"dds"}, MIMETypes: []string{"image/vnd-ms.dds"}},
}

// DefaultReadable lists the formats the bundled decoder can read.
var DefaultReadable = []string{PNG, JPEG, GIF, WebP, BMP, TIFF}

// DeferredMIMETypes are generic media types that may or may not carry an
// image. Matching is by substring so that parameters such as
// "; charset=binary" do not defeat it.
var DeferredMIMETypes = []string{
	"application/octet-stream",
	"application/x-msdownload",
	"application/force-download",
}
