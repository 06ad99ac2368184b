package upload

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job pairs a source file with the object name it is stored under.
type Job struct {
	Name   string
	Source Source
}

// UploadAll uploads every job concurrently and returns the URLs in job
// order. It returns only after every upload has finished; if any fails the
// rest are cancelled and the first error is returned with no URLs.
// observe, when non-nil, receives each task's progress events.
func UploadAll(ctx context.Context, u Uploader, jobs []Job, observe func(Progress)) ([]string, error) {
	if len(jobs) == 0 {
		return []string{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	urls := make([]string, len(jobs))

	for i, job := range jobs {
		task := Start(gctx, u, job.Name, job.Source)
		g.Go(func() error {
			for p := range task.Progress() {
				if observe != nil {
					observe(p)
				}
			}
			url, err := task.Wait()
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
