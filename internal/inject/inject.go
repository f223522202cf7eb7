package inject

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/brandbot/internal/credential"
	"github.com/dmorgan81/brandbot/internal/feed"
	"github.com/dmorgan81/brandbot/internal/handler"
	"github.com/dmorgan81/brandbot/internal/image"
	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/page"
	"github.com/dmorgan81/brandbot/internal/prompt"
	"github.com/dmorgan81/brandbot/internal/session"
	"github.com/dmorgan81/brandbot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// DownloadPrefix is where downloads are saved when a bucket is configured. The
// feed skips nested keys, so downloads never show up in it.
const DownloadPrefix = "downloads/"

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	// The inference call has no timeout of its own; this only bounds a hung
	// connection below the Lambda deadline.
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: 5 * time.Minute})

	do.ProvideNamedValue[string](injector, "hf_endpoint", os.Getenv("HF_ENDPOINT"))
	do.ProvideNamedValue[string](injector, "bucket", os.Getenv("BUCKET"))
	do.ProvideNamedValue[string](injector, "distribution", os.Getenv("DISTRIBUTION"))
	do.ProvideNamedValue[string](injector, "site_url", os.Getenv("SITE_URL"))

	do.Provide[credential.Store](injector, NewCredentialStore)
	do.Provide[image.Generator](injector, image.NewHuggingFaceGenerator)
	do.Provide[*prompt.Randomizer](injector, prompt.NewRandomizer)
	do.Provide[*session.Session](injector, session.NewSession)

	do.Provide[*store.Downloader](injector, store.NewDownloader)

	if os.Getenv("BUCKET") == "" {
		do.ProvideNamed[store.Uploader](injector, "downloads", func(i *do.Injector) (store.Uploader, error) {
			return &store.FileUploader{Dir: lo.Ternary(os.Getenv("DOWNLOAD_DIR") != "", os.Getenv("DOWNLOAD_DIR"), os.TempDir())}, nil
		})
	} else {
		do.ProvideNamed[store.Uploader](injector, "downloads", func(i *do.Injector) (store.Uploader, error) {
			return &store.S3Uploader{
				Client: do.MustInvoke[*s3.Client](i),
				Bucket: do.MustInvokeNamed[string](i, "bucket"),
				Prefix: DownloadPrefix,
			}, nil
		})
		do.ProvideNamed[store.Uploader](injector, "publish", store.NewS3Uploader)
		do.Provide[*page.Templator](injector, page.NewTemplator)
		do.Provide[*feed.Generator](injector, feed.NewS3Generator)
		do.Provide[*handler.Publisher](injector, handler.NewPublisher)
		if os.Getenv("DISTRIBUTION") != "" {
			do.Provide[store.Invalidator](injector, store.NewCloudFrontInvalidator)
		} else {
			do.ProvideValue[store.Invalidator](injector, store.NopInvalidator{})
		}
	}

	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}

// NewCredentialStore keeps the credential in SSM when CREDENTIAL_PARAM is set
// and in a local file otherwise. HF_API_KEY, if set, answers reads until a
// credential is saved; there is no built-in key.
func NewCredentialStore(i *do.Injector) (credential.Store, error) {
	var s credential.Store
	if param := os.Getenv("CREDENTIAL_PARAM"); param != "" {
		s = &credential.ParameterStore{Client: do.MustInvoke[*ssm.Client](i), Path: param}
	} else {
		file := os.Getenv("CREDENTIAL_FILE")
		if file == "" {
			var err error
			if file, err = credential.DefaultPath(); err != nil {
				return nil, fmt.Errorf("locating credential file: %w", err)
			}
		}
		s = &credential.FileStore{Path: file}
	}
	return credential.WithFallback(s, os.Getenv("HF_API_KEY")), nil
}
