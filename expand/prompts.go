package expand

import "fmt"

func expansionPrompt(message, enhanced string) string {
	return fmt.Sprintf(`Generate 8-15 additional keywords and synonyms for this search query that would help find relevant files:

Query: %q
Current expanded query: %q

Add terms that:
1. Are semantically related (not just word variants)
2. Represent alternative ways someone might name or refer to similar files
3. Include domain terms, abbreviations, and related concepts
4. Think about different contexts where such files appear

Examples:
- For "job documents": also add: employment, career, CV, resume, application, offer letter, position, hire
- For "meeting notes": also add: minutes, transcript, recording, summary, discussion, agenda
- For "2023 taxes": also add: tax return, 1040, filing, income statement, W2, deduction

Return only the additional keywords, space-separated:`, message, enhanced)
}

func keywordsPrompt(message string) string {
	return fmt.Sprintf(`You are a semantic keyword extraction expert. Extract ALL relevant keywords and synonyms that would help find files matching this user's intent.

User's intent: %q

Your task:
1. Identify what the user is REALLY looking for (the actual need, not just surface words)
2. List all keywords, synonyms, and related terms that file names or content might use
3. Include domain-specific terms, abbreviations, and alternative phrasings
4. Think about different ways files could be named or organized

Return ONLY space-separated keywords and synonyms. Example:
Input: "show me my 2024 tax documents"
Output: "tax 2024 taxes 1040 W2 filing return income IRS deduction document"

Input: "find my job offer letter"
Output: "job offer letter employment offer acceptance hire hiring position role contract"

For: %q
Keywords:`, message, message)
}

func phrasingsPrompt(message string) string {
	return fmt.Sprintf(`You are a query expansion expert. Generate 4 DIFFERENT phrasings of this search query.

Original query: %q

IMPORTANT:
1. Each phrasing should use DIFFERENT synonyms and keywords
2. Capture different aspects/interpretations of what the user wants
3. Remove filler words (my, the, a, etc.)
4. Return space-separated keywords for each phrasing

Examples:

Input: "find my resume"
PHRASING_1: resume professional experience
PHRASING_2: CV curriculum vitae
PHRASING_3: employment history work background
PHRASING_4: career profile job application document

Input: "show travel documents"
PHRASING_1: travel documents passport
PHRASING_2: visa immigration papers
PHRASING_3: i94 i-94 arrival departure
PHRASING_4: boarding pass flight ticket travel

Now generate 4 phrasings for: %q

Respond EXACTLY in this format:
PHRASING_1: [keywords]
PHRASING_2: [keywords]
PHRASING_3: [keywords]
PHRASING_4: [keywords]`, message, message)
}
