package file

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type FileUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
}

func New(cloudName, apiKey, apiSecret string) *FileUploader {
	return &FileUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// UploadDocument pushes a KYC document to Cloudinary under the given folder
// and returns the hosted URL we persist on the verification record.
func (f *FileUploader) UploadDocument(ctx context.Context, fileName, folder string) (string, error) {
	cld, err := cloudinary.NewFromParams(f.cloudName, f.apiKey, f.apiSecret)
	if err != nil {
		return "", err
	}

	uploadResult, err := cld.Upload.Upload(ctx, fileName, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
