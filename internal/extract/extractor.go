package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"smcextract/internal/config"
	"smcextract/internal/decode"
	"smcextract/internal/fileutil"
	"smcextract/internal/logging"
	"smcextract/internal/services/ffmpeg"
	"smcextract/internal/smc"
)

// Extractor turns one opened container into output artifacts according to
// the run's selection. Decode failures are scoped to their stream: they are
// logged and counted, and the unit keeps going.
type Extractor struct {
	selection  *Selection
	opts       decode.Options
	decoders   int
	transcoder ffmpeg.Client
	logger     *slog.Logger
}

// NewExtractor builds the per-unit decode engine. transcoder may be nil;
// MP3 export is skipped without it.
func NewExtractor(cfg *config.Config, selection *Selection, transcoder ffmpeg.Client, logger *slog.Logger) (*Extractor, error) {
	format, ok := decode.ParseImageFormat(cfg.Output.ImageFormat)
	if !ok {
		format = decode.FormatJPEG
	}
	decoders := cfg.Workers.Decoders
	if decoders < 1 {
		decoders = 1
	}
	return &Extractor{
		selection:  selection,
		opts:       decode.Options{ImageFormat: format, ImageQuality: cfg.Output.ImageQuality},
		decoders:   decoders,
		transcoder: transcoder,
		logger:     logging.WithComponent(logger, "extractor"),
	}, nil
}

// job is one stream to read, decode, and write.
type job struct {
	key     smc.Key
	decoder decode.Decoder
	dir     string
	base    string
}

// ExtractUnit decodes every selected available stream of the container into
// the layout. It returns the unit summary; the returned error is nil unless
// the unit as a whole cannot proceed (cancellation or output write failure).
func (e *Extractor) ExtractUnit(ctx context.Context, r *smc.Reader, unit Unit, layout Layout) (Summary, error) {
	log := logging.WithUnit(e.logger, unit.Subject, unit.Performance)

	var summary Summary
	jobs, wavPath, err := e.planUnit(r, unit, layout, &summary, log)
	if err != nil {
		return summary, err
	}
	summary.StreamsAttempted += len(jobs)

	if err := e.runPool(ctx, r, jobs, &summary, log); err != nil {
		return summary, err
	}

	if wavPath != "" && e.transcoder != nil {
		if _, err := e.transcoder.TranscodeToMP3(ctx, wavPath); err != nil {
			summary.DecodeFailures++
			log.Warn("mp3 export failed", logging.Error(err))
		}
	}

	if e.selection.Includes(smc.ModalityMetadata) {
		summary.StreamsAttempted++
		data, err := json.MarshalIndent(r.Header(), "", "  ")
		if err == nil {
			err = fileutil.WriteFileAtomic(filepath.Join(layout.ModalityDir(unit, smc.ModalityMetadata), "metadata.json"), data, 0o644)
		}
		if err != nil {
			return summary, err
		}
		summary.StreamsDecoded++
	}

	return summary, nil
}

// planUnit resolves the selection against the container's true index into a
// flat job list. It also returns the WAV destination when audio is planned,
// for the optional MP3 export that follows decoding.
func (e *Extractor) planUnit(r *smc.Reader, unit Unit, layout Layout, summary *Summary, log *slog.Logger) ([]job, string, error) {
	var jobs []job
	var wavPath string
	missing := map[string]struct{}{}
	cameras := map[string]struct{}{}

	requested, all := e.selection.CamerasFor(unit.Performance)

	for _, m := range e.selection.Modalities() {
		switch m {
		case smc.ModalityImages, smc.ModalityMasks, smc.ModalityKeypoints2D:
			effective, absent := EffectiveCameras(requested, all, r.Cameras(m))
			for _, camera := range absent {
				missing[camera] = struct{}{}
			}
			decoder, err := decode.ForModality(m, e.opts)
			if err != nil {
				return nil, "", err
			}
			for _, camera := range effective {
				frames := r.Frames(m, camera)
				if len(frames) == 0 {
					continue
				}
				cameras[camera] = struct{}{}
				if len(frames) > summary.FrameCount {
					summary.FrameCount = len(frames)
				}
				dir := layout.CameraDir(unit, m, camera)
				for _, frame := range frames {
					jobs = append(jobs, job{
						key:     smc.FrameKey(m, camera, frame),
						decoder: decoder,
						dir:     dir,
						base:    layout.FrameBase(frame),
					})
				}
			}

		case smc.ModalityKeypoints3D, smc.ModalityTexture:
			frames := r.Frames(m, "")
			if len(frames) == 0 {
				continue
			}
			if len(frames) > summary.FrameCount {
				summary.FrameCount = len(frames)
			}
			decoder, err := decode.ForModality(m, e.opts)
			if err != nil {
				return nil, "", err
			}
			dir := layout.ModalityDir(unit, m)
			for _, frame := range frames {
				jobs = append(jobs, job{
					key:     smc.FrameKey(m, "", frame),
					decoder: decoder,
					dir:     dir,
					base:    layout.FrameBase(frame),
				})
			}

		case smc.ModalityCalibration:
			effective, absent := EffectiveCameras(requested, all, r.Cameras(m))
			for _, camera := range absent {
				missing[camera] = struct{}{}
			}
			for _, camera := range effective {
				dir := layout.CameraDir(unit, m, camera)
				for _, matrix := range smc.CalibrationMatrices {
					key := smc.CameraArtifactKey(m, camera, matrix)
					if !r.Has(key) {
						continue
					}
					decoder, err := decode.NewCalibration(matrix)
					if err != nil {
						return nil, "", err
					}
					jobs = append(jobs, job{key: key, decoder: decoder, dir: dir, base: matrix})
				}
			}

		case smc.ModalityAudio:
			samplesKey := smc.ArtifactKey(m, smc.AudioSamples)
			rateKey := smc.ArtifactKey(m, smc.AudioSampleRate)
			if !r.Has(samplesKey) || !r.Has(rateKey) {
				continue
			}
			ratePayload, err := r.Read(rateKey)
			if err != nil {
				return nil, "", err
			}
			rate, err := decode.ParseSampleRate(ratePayload)
			if err != nil {
				summary.StreamsAttempted++
				summary.DecodeFailures++
				log.Warn("audio stream skipped", logging.Error(err))
				continue
			}
			dir := layout.ModalityDir(unit, m)
			jobs = append(jobs, job{key: samplesKey, decoder: decode.NewAudio(rate), dir: dir, base: "audio"})
			wavPath = filepath.Join(dir, "audio.wav")

		case smc.ModalityMesh:
			key := smc.ArtifactKey(m, smc.MeshArtifact)
			if !r.Has(key) {
				continue
			}
			jobs = append(jobs, job{
				key:     key,
				decoder: decode.NewMesh(),
				dir:     layout.ModalityDir(unit, m),
				base:    smc.MeshArtifact,
			})

		case smc.ModalityMetadata:
			// Written after decoding from the already-parsed header.
		}
	}

	summary.CamerasExtracted = len(cameras)
	for camera := range missing {
		summary.MissingCameras = append(summary.MissingCameras, camera)
	}
	sort.Strings(summary.MissingCameras)
	if len(summary.MissingCameras) > 0 {
		log.Warn("requested cameras not present in container",
			slog.Any("cameras", summary.MissingCameras))
	}
	return jobs, wavPath, nil
}

// runPool fans the job list out over the decode workers. Stream decode
// failures are counted and logged; an output write failure or cancellation
// stops the pool and fails the unit.
func (e *Extractor) runPool(ctx context.Context, r *smc.Reader, jobs []job, summary *Summary, log *slog.Logger) error {
	if len(jobs) == 0 {
		return ctx.Err()
	}

	queue := make(chan job)
	stop := make(chan struct{})
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stopOnce sync.Once
		fatal    error
		decoded  int
		failures int
	)

	setFatal := func(err error) {
		mu.Lock()
		if fatal == nil {
			fatal = err
		}
		mu.Unlock()
		stopOnce.Do(func() { close(stop) })
	}

	for i := 0; i < e.decoders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				payload, err := r.Read(j.key)
				if err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
					log.Warn("stream unreadable", slog.String("stream", j.key.String()), logging.Error(err))
					continue
				}
				artifacts, err := j.decoder.Decode(payload)
				if err != nil {
					decodeErr := &decode.DecodeError{Key: j.key, Err: err}
					mu.Lock()
					failures++
					mu.Unlock()
					log.Warn("stream decode failed", logging.Error(decodeErr))
					continue
				}
				for _, artifact := range artifacts {
					path := filepath.Join(j.dir, j.base+artifact.Suffix)
					if err := fileutil.WriteFileAtomic(path, artifact.Data, 0o644); err != nil {
						setFatal(err)
						return
					}
				}
				mu.Lock()
				decoded++
				mu.Unlock()
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case <-stop:
			break feed
		case queue <- j:
		}
	}
	close(queue)
	wg.Wait()

	summary.StreamsDecoded += decoded
	summary.DecodeFailures += failures
	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}
