// Package models defines the ERP resources exchanged with the backend.
package models
