// Package config loads typed settings from the environment, backed by Viper.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/ioc/option"
	"github.com/a-peyrard/ioc/reflectutils"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix string
	}

	// WithDefault can be implemented by any (pointer to) struct of the loaded settings,
	// ApplyDefault is called once the environment has been read.
	WithDefault interface {
		ApplyDefault()
	}
)

var withDefaultType = reflect.TypeOf((*WithDefault)(nil)).Elem()

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load reads a T from the environment.
//
// Every leaf field is bound to a variable named after its path, in screaming snake case,
// prefixed by the optional env prefix: field `Log.Level` with prefix `IOC` reads `IOC_LOG_LEVEL`.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	typ := reflect.TypeOf(vT)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unable to load config into %T, a struct is expected", vT)
	}
	bindEnvs(v, options.prefix, typ, nil, nil)

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config:\n\t%w", err)
	}

	reflectutils.WalkStruct(
		&vT,
		reflectutils.AllVisitors(
			reflectutils.CreateNilStructs,
			reflectutils.CreateEmptyArrays,
			applyDefault,
		),
	)

	return &vT, nil
}

func applyDefault(val reflect.Value, typ reflect.Type, _ []string) {
	if !typ.Implements(withDefaultType) || !val.IsValid() {
		return
	}
	if typ.Kind() == reflect.Pointer && val.IsNil() {
		return
	}
	val.Interface().(WithDefault).ApplyDefault()
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, keyParts []string, envParts []string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			name = field.Name
		}

		fieldTyp := field.Type
		if fieldTyp.Kind() == reflect.Pointer && fieldTyp.Elem().Kind() == reflect.Struct {
			fieldTyp = fieldTyp.Elem()
		}
		fieldKeyParts := append(append([]string{}, keyParts...), name)
		fieldEnvParts := append(append([]string{}, envParts...), ToScreamingSnakeCase(name))
		if fieldTyp.Kind() == reflect.Struct {
			bindEnvs(v, envPrefix, fieldTyp, fieldKeyParts, fieldEnvParts)
			continue
		}

		key := strings.Join(fieldKeyParts, ".")
		env := strings.Join(fieldEnvParts, "_")
		_ = v.BindEnv(key, mergeWithEnvPrefix(envPrefix, env))
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}
