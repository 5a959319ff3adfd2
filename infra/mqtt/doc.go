// Package mqtt bridges the command arbiter to an MQTT broker.
//
// Source intents arrive as JSON on one topic per source and are fed to the
// arbiter's source topics. Arbitrated commands are published under
// CommandPrefix, one topic per actuator domain. Mode requests are read from
// ModeTopic and lost-control notifications are written to FaultTopic.
package mqtt
