// Command orderdesk runs the order desk web front end and offers a few
// operator commands against the same REST backend:
//
//	orderdesk serve                      # start the HTTP server
//	orderdesk route:list                 # list named routes
//	orderdesk orders:list --status=active
//	orderdesk orders:show 7
//	orderdesk catalog:list
//	orderdesk config:check               # validate configuration
package main
