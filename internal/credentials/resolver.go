package credentials

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/sirupsen/logrus"
)

// Mode is the authentication path chosen for an environment.
type Mode string

const (
	ModeLocal          Mode = "local"
	ModeAmbient        Mode = "ambient"
	ModeProfile        Mode = "profile"
	ModeStatic         Mode = "static"
	ModeDefaultProfile Mode = "default-profile"
)

const (
	defaultProfile   = "default"
	localPlaceholder = "local"
)

// Descriptor is the credential context for one environment.
type Descriptor struct {
	Environment     config.Environment
	Mode            Mode
	Region          string
	Endpoint        string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

type Resolver struct {
	cfg *config.Config
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve picks exactly one authentication path for env, in priority order:
// local emulator, managed execution, named profile, static keys, default profile.
func (r *Resolver) Resolve(env config.Environment) (*Descriptor, error) {
	cfg := r.cfg
	desc := &Descriptor{Environment: env, Region: cfg.Region}

	if cfg.UseLocal {
		desc.Mode = ModeLocal
		desc.Endpoint = cfg.LocalEndpoint
		desc.AccessKeyID = localPlaceholder
		desc.SecretAccessKey = localPlaceholder
		return desc, nil
	}

	hasKeys := cfg.AccessKeyID != "" || cfg.SecretAccessKey != ""
	if cfg.Profile != "" && hasKeys {
		return nil, config.ErrConflictingCredentials
	}

	switch {
	case cfg.Managed:
		desc.Mode = ModeAmbient
	case cfg.Profile != "":
		desc.Mode = ModeProfile
		desc.Profile = cfg.Profile
	case hasKeys:
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			return nil, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
		}
		desc.Mode = ModeStatic
		desc.AccessKeyID = cfg.AccessKeyID
		desc.SecretAccessKey = cfg.SecretAccessKey
		desc.SessionToken = cfg.SessionToken
	default:
		logrus.Warnf("no credentials configured for %s, falling back to the %q profile", env, defaultProfile)
		desc.Mode = ModeDefaultProfile
		desc.Profile = defaultProfile
	}

	return desc, nil
}

// AWSConfig builds the SDK configuration for the descriptor.
func (d *Descriptor) AWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(d.Region),
	}

	switch d.Mode {
	case ModeLocal, ModeStatic:
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(d.AccessKeyID, d.SecretAccessKey, d.SessionToken),
		))
	case ModeProfile, ModeDefaultProfile:
		opts = append(opts, awsconfig.WithSharedConfigProfile(d.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config for %s: %w", d.Environment, err)
	}
	return cfg, nil
}

// Summary is a single line describing the descriptor without secrets.
func (d *Descriptor) Summary() string {
	switch d.Mode {
	case ModeLocal:
		return fmt.Sprintf("local emulator at %s", d.Endpoint)
	case ModeProfile, ModeDefaultProfile:
		return fmt.Sprintf("profile %q in %s", d.Profile, d.Region)
	case ModeStatic:
		return fmt.Sprintf("static keys %s in %s", maskKey(d.AccessKeyID), d.Region)
	default:
		return fmt.Sprintf("ambient credentials in %s", d.Region)
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
