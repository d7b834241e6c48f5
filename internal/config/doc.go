// Package config provides configuration structures and utilities for nlpreport.
// It defines the annotation server connection, the annotator stages, the report
// output settings and the run history location, and loads them from the
// .nlpreport YAML file and the environment.
package config
