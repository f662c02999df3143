// Package events publishes material status transitions to RabbitMQ.
//
// Every transition into processing, completed or failed becomes one JSON
// message on a durable topic exchange, routed as "material.<status>" so
// consumers can bind to exactly the transitions they care about. Publishing
// is best effort: a broker outage degrades notifications, never processing.
package events
