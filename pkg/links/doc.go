// Package links builds absolute URLs to host application pages (issues,
// attachments, projects) used as link targets in chat messages.
// NopBuilder yields no URLs, in which case callers render plain text.
package links
