/*
Package config provides typed access to generator settings read from YAML
or JSON.

# Overview

Config wraps a map[string]any and returns the default passed by the caller
when a key is missing or holds a value of the wrong type. Nested mappings
are reached with Sub.

	cfg, err := config.FromFile("run.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	tries := cfg.Int("max_tries", 10)
	tol := cfg.Float("ep_tolerance", 1e-5)
	beams := cfg.Sub("beams")
	eCM := beams.Float("e_cm", 91.188)

A typical file:

	max_tries: 10
	check_event: true
	seed: 12345
	beams:
	  beam_a: 11
	  beam_b: -11
	  e_cm: 91.188

# Layering

FromFiles reads several files in order and merges each over the previous
ones, so a run file only needs the keys it changes:

	cfg, err := config.FromFiles("zpole.yaml", "quick.yaml")

Merge combines nested mappings key by key; other values are replaced.

# Type Coercion

Numeric accessors convert between integer and floating point values when
no precision is lost: Int accepts a float64 only without a fractional part,
Uint64 rejects negative values.

# Thread Safety

Config is safe for concurrent read access. With returns a modified copy
and never changes the receiver.
*/
package config
