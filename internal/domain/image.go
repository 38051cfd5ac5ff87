package domain

// Image — изображение товара, которое кладётся в объектное хранилище.
type Image struct {
	ID        string // uuid
	Bucket    string
	ObjectKey string // Ключ вида products/<uuid>.png
	Bytes     []byte
	Size      int64
	MimeType  string // Например, "image/png"
}

func NewImage(id, bucket, objectKey string, data []byte, size int64, mimeType string) *Image {
	return &Image{
		ID:        id,
		Bucket:    bucket,
		ObjectKey: objectKey,
		Bytes:     data,
		Size:      size,
		MimeType:  mimeType,
	}
}

// Length возвращает размер объекта. Если размер не задан, он берётся из данных.
func (i *Image) Length() int64 {
	if i.Size > 0 {
		return i.Size
	}
	return int64(len(i.Bytes))
}
