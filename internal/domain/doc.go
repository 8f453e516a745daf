// Package domain contains the core business entities, value objects, and
// domain errors of the application: users, tasks, the authenticated
// identity, and the tagged Error shared by every service.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
