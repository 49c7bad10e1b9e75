// This file contains the prompts used by the entity extractors and the
// retrieval-augmented answer generator.
package genai

import "fmt"

// bookTitlePrompt asks the model to isolate a book title from a library
// search utterance.
func bookTitlePrompt(utterance string) string {
	return fmt.Sprintf(`Extract the book title from the following library search request.

Rules:
- Return ONLY the book title, nothing else.
- Do not include words like "book", "a copy of", "the novel" unless they are part of the title.
- If no book title is mentioned, return exactly NONE.

Examples:
- "can I get the book Clean Code" -> Clean Code
- "do you have introduction to algorithms in the library" -> Introduction to Algorithms
- "I want something to read" -> NONE

Request: %s`, utterance)
}

// slotRequestPrompt asks the model for the faculty name and date in a
// slot booking utterance, as JSON.
func slotRequestPrompt(utterance string) string {
	return fmt.Sprintf(`Extract the faculty member's name and the requested date from the following appointment booking request.

Respond with JSON only, in this exact shape:
{"faculty_name": "<name or empty string>", "date": "<date as spoken or empty string>"}

Rules:
- faculty_name is the person the student wants to meet. Drop titles like Dr., Prof., Sir, Ma'am.
- date is the day the student wants to meet, kept as written (e.g. "tomorrow", "25 March", "next Monday").
- Use an empty string for anything not mentioned.

Request: %s`, utterance)
}

// answerPrompt builds the grounded question-answering prompt for the
// retrieval-augmented generation path.
func answerPrompt(question, context string) string {
	return fmt.Sprintf(`You are a helpful assistant for The LNM Institute of Information Technology (LNMIIT).
Answer the student's question using ONLY the reference material below.
If the reference material does not contain the answer, say you do not have that information and suggest contacting the institute office.
Keep the answer concise and factual.

Reference material:
%s

Question: %s`, context, question)
}
