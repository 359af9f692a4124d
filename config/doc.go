// Package config assembles the settings of a registration run. Values come
// from an optional YAML file and are overridden by CI inputs; every input
// left unset keeps the file value or the default.
package config
