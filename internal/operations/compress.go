package operations

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// GzipExt is appended to compressed archives.
const GzipExt = ".gz"

// CompressGzip streams inputPath into inputPath+".gz" and removes inputPath
// once the compressed file is complete. On failure the partial output is
// removed and inputPath is left for the caller to deal with.
func CompressGzip(inputPath string) (string, error) {
	outputPath := inputPath + GzipExt

	inFile, err := os.Open(inputPath)
	if err != nil {
		return "", fsError(err, "open input file %q", inputPath)
	}
	defer inFile.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return "", fsError(err, "create output file %q", outputPath)
	}

	if err := compressStream(outFile, inFile); err != nil {
		outFile.Close()
		_ = RemoveFile(outputPath)
		return "", errors.Wrapf(err, "compress %q", inputPath)
	}
	if err := outFile.Close(); err != nil {
		_ = RemoveFile(outputPath)
		return "", fsError(err, "close output file %q", outputPath)
	}

	inFile.Close()
	if err := RemoveFile(inputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// DecompressGzip streams a .gz file into its sibling without the suffix and
// returns that path. The compressed file is kept.
func DecompressGzip(inputPath string) (string, error) {
	if !strings.HasSuffix(inputPath, GzipExt) {
		return "", errors.Newf("%q has no %s suffix", inputPath, GzipExt)
	}
	outputPath := strings.TrimSuffix(inputPath, GzipExt)

	inFile, err := os.Open(inputPath)
	if err != nil {
		return "", fsError(err, "open input file %q", inputPath)
	}
	defer inFile.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return "", fsError(err, "create output file %q", outputPath)
	}

	if err := decompressStream(outFile, inFile); err != nil {
		outFile.Close()
		_ = RemoveFile(outputPath)
		return "", errors.Wrapf(err, "decompress %q", inputPath)
	}
	if err := outFile.Close(); err != nil {
		_ = RemoveFile(outputPath)
		return "", fsError(err, "close output file %q", outputPath)
	}
	return outputPath, nil
}

func compressStream(dst io.Writer, src io.Reader) error {
	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		return fsError(err, "copy into gzip stream")
	}
	if err := zw.Close(); err != nil {
		return fsError(err, "flush gzip stream")
	}
	return nil
}

func decompressStream(dst io.Writer, src io.Reader) error {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return errors.Wrap(err, "read gzip header")
	}
	defer zr.Close()

	if _, err := io.Copy(dst, zr); err != nil {
		return errors.Wrap(err, "copy out of gzip stream")
	}
	return nil
}
