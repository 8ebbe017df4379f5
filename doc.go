// Package main provides the entry point for the inkpress blog platform.
// It initializes and runs a web server using the Fiber framework that lets
// authenticated users create blogs, write posts, and view per-blog analytics
// through server-rendered pages and form actions. The application uses gorm
// for data persistence against MySQL, PostgreSQL, or SQLite backends.
package main
