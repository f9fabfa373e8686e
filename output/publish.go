package output

import "context"

// File is a named payload to publish.
type File struct {
	Name string
	Data []byte
}

// FeedFiles returns the JSON and protobuf encodings of a feed in publish
// order.
func FeedFiles(jsonData, protobufData []byte) []File {
	return []File{
		{Name: FeedJSONName, Data: jsonData},
		{Name: FeedProtobufName, Data: protobufData},
	}
}

// Publish writes files in order and stops at the first failure.
func Publish(ctx context.Context, w Writer, files ...File) error {
	for _, f := range files {
		if err := w.Write(ctx, f.Name, f.Data); err != nil {
			return &WriteError{Target: w.Location(f.Name), Err: err}
		}
	}
	return nil
}
