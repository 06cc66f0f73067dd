// Package session defines plenary session identifiers and the utterance id
// scheme derived from them.
//
// A session is one recorded sitting, identified by its running number and
// parliamentary working year (for example "001-2015"). The electoral term is
// carried alongside because the corpus directory layout groups recordings by
// term, but it never appears in the canonical session string. Utterance ids
// encode speaker, session and centisecond time offsets so that sorting them
// lexicographically groups a speaker's segments and orders them by time.
package session
