package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
)

// Repository defines persistence operations for build reports.
type Repository interface {
	Load(ctx context.Context) (*build.Result, error)
	Save(ctx context.Context, result *build.Result) error
}

// FileRepository persists a build report to a JSON file on disk.
// JSON is produced and consumed via protobuf JSON (protojson) over a structpb.Struct,
// so timestamps and durations use the protobuf well-known JSON forms.
type FileRepository struct {
	// path is the filesystem location of the JSON report file.
	path string
	// mu protects concurrent access to the report file.
	mu sync.Mutex
}

// Report field names.
const (
	fieldSuccess     = "success"
	fieldOutputPath  = "output_path"
	fieldSize        = "size"
	fieldProtocol    = "protocol"
	fieldStartedAt   = "started_at"
	fieldDuration    = "duration"
	fieldIdentifiers = "identifiers"
	fieldErrorKind   = "error_kind"
	fieldError       = "error"
	fieldHint        = "hint"
	fieldBuiltBy     = "built_by"
)

var (
	// ErrNotFound is returned when the report file does not exist yet.
	ErrNotFound = errors.New("report not found")
	// errResultIsNotSet is returned when a nil result is saved.
	errResultIsNotSet = errors.New("build result is not set")
	// errMalformedField is returned when a report field has an unexpected type.
	errMalformedField = errors.New("malformed report field")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the report location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the report from disk. The failure cause, if any, is restored as an
// error carrying the recorded message, not the original error value.
func (r *FileRepository) Load(_ context.Context) (*build.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read report file: %w", err)
	}

	var protoReport structpb.Struct
	if err = protojson.Unmarshal(contents, &protoReport); err != nil {
		return nil, fmt.Errorf("decode report file: %w", err)
	}

	return fromProto(&protoReport)
}

// Save writes the report to disk using JSON representation.
func (r *FileRepository) Save(_ context.Context, result *build.Result) error {
	if result == nil {
		return errResultIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	protoReport, err := toProto(result)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(protoReport)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report folder: %w", err)
		}
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	return nil
}

// toProto converts the build Result into a protobuf Struct.
func toProto(result *build.Result) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldSuccess:    result.Success,
		fieldOutputPath: result.OutputPath,
		fieldSize:       float64(result.Size),
		fieldProtocol:   result.Protocol.String(),
		fieldIdentifiers: map[string]any{
			"upgrade_code":        result.Identifiers.UpgradeCode,
			"product_code":        result.Identifiers.ProductCode,
			"component_main":      result.Identifiers.ComponentMain,
			"component_config":    result.Identifiers.ComponentConfig,
			"component_license":   result.Identifiers.ComponentLicense,
			"component_resources": result.Identifiers.ComponentResources,
		},
	}

	if result.BuiltBy != nil {
		fields[fieldBuiltBy] = map[string]any{
			"hostname": result.BuiltBy.Hostname,
			"username": result.BuiltBy.Username,
		}
	}

	if !result.StartedAt.IsZero() {
		startedAt, err := wellKnownString(timestamppb.New(result.StartedAt))
		if err != nil {
			return nil, err
		}

		fields[fieldStartedAt] = startedAt
	}

	duration, err := wellKnownString(durationpb.New(result.Duration))
	if err != nil {
		return nil, err
	}

	fields[fieldDuration] = duration

	if result.Err != nil {
		fields[fieldError] = result.Err.Error()

		if kind := build.KindOf(result.Err); kind != nil {
			fields[fieldErrorKind] = kind.Error()
		}

		if hint := build.HintOf(result.Err); hint != "" {
			fields[fieldHint] = hint
		}
	}

	return structpb.NewStruct(fields)
}

// fromProto converts a protobuf Struct back into a build Result.
func fromProto(protoReport *structpb.Struct) (*build.Result, error) {
	fields := protoReport.GetFields()

	result := &build.Result{
		Success:    fields[fieldSuccess].GetBoolValue(),
		OutputPath: fields[fieldOutputPath].GetStringValue(),
		Size:       int64(fields[fieldSize].GetNumberValue()),
		Protocol:   build.ParseProtocol(fields[fieldProtocol].GetStringValue()),
	}

	if ids := fields[fieldIdentifiers].GetStructValue().GetFields(); ids != nil {
		result.Identifiers = build.IdentifierSet{
			UpgradeCode:        ids["upgrade_code"].GetStringValue(),
			ProductCode:        ids["product_code"].GetStringValue(),
			ComponentMain:      ids["component_main"].GetStringValue(),
			ComponentConfig:    ids["component_config"].GetStringValue(),
			ComponentLicense:   ids["component_license"].GetStringValue(),
			ComponentResources: ids["component_resources"].GetStringValue(),
		}
	}

	if actor := fields[fieldBuiltBy].GetStructValue().GetFields(); actor != nil {
		result.BuiltBy = &build.Actor{
			Hostname: actor["hostname"].GetStringValue(),
			Username: actor["username"].GetStringValue(),
		}
	}

	if value, ok := fields[fieldStartedAt]; ok {
		var startedAt timestamppb.Timestamp
		if err := parseWellKnown(value, &startedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", fieldStartedAt, err)
		}

		result.StartedAt = startedAt.AsTime()
	}

	if value, ok := fields[fieldDuration]; ok {
		var duration durationpb.Duration
		if err := parseWellKnown(value, &duration); err != nil {
			return nil, fmt.Errorf("%s: %w", fieldDuration, err)
		}

		result.Duration = duration.AsDuration()
	}

	if message := fields[fieldError].GetStringValue(); message != "" {
		result.Err = errors.New(message) //nolint:err113 // Restored from its recorded text.
	}

	return result, nil
}

// wellKnownString renders a well-known type in its protobuf JSON string form.
func wellKnownString(message proto.Message) (string, error) {
	data, err := protojson.Marshal(message)
	if err != nil {
		return "", err
	}

	return strconv.Unquote(string(data))
}

// parseWellKnown parses the protobuf JSON string form of a well-known type.
func parseWellKnown(value *structpb.Value, message proto.Message) error {
	text, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return errMalformedField
	}

	return protojson.Unmarshal([]byte(strconv.Quote(text.StringValue)), message)
}
