package folders

// Response is the wire form of a folder, with its document count attached.
type Response struct {
	Folder
	DocumentCount int `json:"document_count"`
}

// ToResponse pairs a folder with its document count.
func ToResponse(folder Folder, documentCount int) Response {
	return Response{Folder: folder, DocumentCount: documentCount}
}
