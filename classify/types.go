/*
 * MIT License
 *
 * Copyright (c) 2024 pixelserv-tls contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package classify

// Class is the closed set of response classifications a connection can be
// tagged with. The ordering matches the pipe record's status field so that
// ActionLogVerb/ActionDecKcc (the two non-response "actions") sort after
// every real response kind, matching pixelserv.c's pipedata.status < ACTION_LOG_VERB check.
type Class int

const (
	SendGIF Class = iota
	SendTXT
	SendJPG
	SendPNG
	SendSWF
	SendICO
	SendStats
	SendStatsText
	Send204
	SendRedirect
	SendNoExt
	SendUnkExt
	SendNoURL
	SendBadPath
	SendPost
	SendHead
	SendOptions
	SendBad
	FailGeneral
	FailTimeout
	FailClosed
	FailReply
	FailThrottled

	ActionLogVerb
	ActionDecKcc
)

var className = map[Class]string{
	SendGIF:       "gif",
	SendTXT:       "txt",
	SendJPG:       "jpg",
	SendPNG:       "png",
	SendSWF:       "swf",
	SendICO:       "ico",
	SendStats:     "sta",
	SendStatsText: "stt",
	Send204:       "noc",
	SendRedirect:  "rdr",
	SendNoExt:     "nfe",
	SendUnkExt:    "ufe",
	SendNoURL:     "nou",
	SendBadPath:   "pth",
	SendPost:      "pst",
	SendHead:      "hed",
	SendOptions:   "opt",
	SendBad:       "bad",
	FailGeneral:   "err",
	FailTimeout:   "tmo",
	FailClosed:    "cls",
	FailReply:     "cly",
	FailThrottled: "clt",
	ActionLogVerb: "verb",
	ActionDecKcc:  "kcc",
}

// String returns the short counter name used by the stats registry and the
// /servstats renderer (e.g. "gif", "tmo", "kcc").
func (c Class) String() string {
	if s, ok := className[c]; ok {
		return s
	}
	return "unk"
}

// IsAction reports whether the class is a pipe "action" rather than a
// response/failure classification (ACTION_LOG_VERB, ACTION_DEC_KCC).
func (c Class) IsAction() bool {
	return c >= ActionLogVerb
}

// AllClasses lists every classification in stable counter order, for
// stats rendering.
func AllClasses() []Class {
	return []Class{
		SendGIF, SendTXT, SendJPG, SendPNG, SendSWF, SendICO,
		SendStats, SendStatsText, Send204, SendRedirect,
		SendNoExt, SendUnkExt, SendNoURL, SendBadPath,
		SendPost, SendHead, SendOptions, SendBad,
		FailGeneral, FailTimeout, FailClosed, FailReply, FailThrottled,
	}
}

// SSLOutcome is the parallel TLS classification tag.
type SSLOutcome int

const (
	SSLNotTLS SSLOutcome = iota
	SSLHit
	SSLMiss
	SSLErr
	SSLHitCls
)

var sslName = map[SSLOutcome]string{
	SSLNotTLS: "not_tls",
	SSLHit:    "slh",
	SSLMiss:   "slm",
	SSLErr:    "sle",
	SSLHitCls: "slc",
}

func (s SSLOutcome) String() string {
	if n, ok := sslName[s]; ok {
		return n
	}
	return "slu"
}

// AllSSLOutcomes lists every TLS outcome tag used for counters (excluding
// SSLNotTLS, which is deliberately not counted — see spec.md §4.1).
func AllSSLOutcomes() []SSLOutcome {
	return []SSLOutcome{SSLHit, SSLMiss, SSLErr, SSLHitCls}
}
